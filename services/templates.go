package services

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// questionTemplate steers the model towards relevant topics for a subdomain
type questionTemplate struct {
	Topics   []string
	Examples []string
}

var questionTemplates = map[string]map[string]questionTemplate{
	"politics": {
		"national": {
			Topics: []string{
				"Indian Constitution and Fundamental Rights",
				"Parliament and Government Structure",
				"Election Commission and Voting",
				"Prime Ministers and Presidents",
				"Political Parties and Symbols",
				"State Governments and Chief Ministers",
				"Constitutional Amendments",
				"Supreme Court and Judiciary",
			},
			Examples: []string{
				"Which article of the Indian Constitution guarantees the Right to Education?",
				"Who was the first woman Prime Minister of India?",
				"What is the maximum strength of the Lok Sabha?",
			},
		},
		"northIndian": {
			Topics: []string{
				"North Indian State Politics",
				"Delhi Government and Assembly",
				"Uttar Pradesh Politics",
				"Punjab State Government",
				"Haryana Legislative Assembly",
			},
		},
	},
	"geography": {
		"statesAndCapitals": {
			Topics: []string{
				"Indian States and Union Territories",
				"State Capitals and Major Cities",
				"Geographical Features of States",
				"State Borders and Neighboring States",
			},
		},
		"northIndian": {
			Topics: []string{
				"North Indian States (UP, Punjab, Haryana, Delhi)",
				"Himalayan States (Himachal, Uttarakhand, J&K)",
				"North Indian Rivers (Ganga, Yamuna, Beas)",
				"North Indian Plains and Agriculture",
			},
		},
	},
	"entertainment": {
		"bollywood": {
			Topics: []string{
				"Classic Bollywood Movies (1950s-1990s)",
				"Famous Bollywood Actors and Actresses",
				"Bollywood Music and Songs",
				"Bollywood Directors and Producers",
				"Bollywood Awards and Recognition",
			},
		},
	},
	"history": {
		"ancientIndia": {
			Topics: []string{
				"Indus Valley Civilization",
				"Vedic Period and Literature",
				"Maurya Empire and Ashoka",
				"Gupta Dynasty and Golden Age",
				"Ancient Indian Universities",
			},
		},
		"modernIndia": {
			Topics: []string{
				"Indian Independence Movement",
				"Freedom Fighters and Leaders",
				"Partition of India",
				"Post-Independence Development",
				"Indian Democracy and Constitution",
			},
		},
	},
}

// maxKeyDistance is how many edits a client-supplied name may be away from a table key
const maxKeyDistance = 1

// templateKey folds case and drops separators so "North Indian" finds "northIndian"
func templateKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

func closestKey[V any](table map[string]V, name string) (V, bool) {
	var zero V
	want := templateKey(name)
	if want == "" {
		return zero, false
	}

	best, bestDistance := "", maxKeyDistance+1
	for key := range table {
		k := templateKey(key)
		if k == want {
			return table[key], true
		}
		if d := fuzzy.LevenshteinDistance(want, k); d < bestDistance || (d == bestDistance && key < best) {
			best, bestDistance = key, d
		}
	}
	if best == "" || bestDistance > maxKeyDistance {
		return zero, false
	}
	return table[best], true
}

// lookupTemplate finds the hints for (category, subDomain), tolerating small typos.
// Uncovered pairs return ok == false and are not an error.
func lookupTemplate(category, subDomain string) (questionTemplate, bool) {
	subdomains, ok := closestKey(questionTemplates, category)
	if !ok {
		return questionTemplate{}, false
	}
	return closestKey(subdomains, subDomain)
}
