package services

import (
	"strings"

	"github.com/samber/lo"
)

// UncategorizedLabel is returned when no sub-category collects enough keyword hits
const UncategorizedLabel = "others"

const minKeywordHits = 2

type keywordGroup struct {
	Name     string
	Keywords []string
	// Nested groups are listed for completeness but never matched.
	Nested bool
}

type keywordCategory struct {
	Name   string
	Groups []keywordGroup
}

// keywordTable is scanned in order; the first group with enough hits wins
var keywordTable = []keywordCategory{
	{Name: "entertainment", Groups: []keywordGroup{
		{Name: "bollywood", Nested: true, Keywords: []string{"bollywood movies", "bollywood actors", "bollywood songs"}},
		{Name: "tollywood", Keywords: []string{"tollywood", "south indian film", "telugu movie", "tamil cinema"}},
		{Name: "indianMusic", Keywords: []string{"indian music", "singer", "composer", "album", "classical music", "pop", "instrumental"}},
		{Name: "indianTVShows", Keywords: []string{"tv show", "indian television", "soap opera", "reality show"}},
		{Name: "sports", Nested: true, Keywords: []string{"cricket", "football", "tennis"}},
	}},
	{Name: "politics", Groups: []keywordGroup{
		{Name: "national", Keywords: []string{"government", "ministry", "policy", "cabinet", "parliament", "national law"}},
		{Name: "northIndian", Keywords: []string{"north india politics", "state government", "chief minister", "legislature"}},
		{Name: "southIndian", Keywords: []string{"south india politics", "andhra pradesh", "karnataka", "tamil nadu"}},
		{Name: "freedomMovement", Keywords: []string{"independence", "freedom fighters", "british rule", "indian freedom movement"}},
	}},
	{Name: "history", Groups: []keywordGroup{
		{Name: "ancientIndia", Keywords: []string{"ancient india", "vedic period", "maurya empire", "gupta dynasty", "harappan"}},
		{Name: "medievalIndia", Keywords: []string{"medieval india", "mughal empire", "sultanate", "rajput", "maratha"}},
		{Name: "modernIndia", Keywords: []string{"modern india", "british india", "post-independence", "partition", "indian history"}},
	}},
	{Name: "geography", Groups: []keywordGroup{
		{Name: "statesAndCapitals", Keywords: []string{"state capital", "indian states", "capital city", "map of india"}},
		{Name: "riversAndMountains", Keywords: []string{"rivers of india", "mountains", "himalayas", "ganges", "narmada"}},
		{Name: "nationalParks", Keywords: []string{"national park", "wildlife sanctuary", "forest reserve", "nature park"}},
		{Name: "librariesAndStatues", Keywords: []string{"indian library", "statue", "monument", "historical site"}},
	}},
	{Name: "generalKnowledge", Groups: []keywordGroup{
		{Name: "economy", Keywords: []string{"indian economy", "gdp", "inflation", "stock market", "trade", "finance"}},
		{Name: "festivals", Keywords: []string{"festival", "celebration", "diwali", "holi", "eid", "indian tradition"}},
		{Name: "literature", Keywords: []string{"literature", "books", "author", "poet", "novel", "indian writer"}},
		{Name: "scienceAndTechnology", Keywords: []string{"science", "technology", "innovation", "research", "engineering"}},
	}},
	{Name: "mythology", Groups: []keywordGroup{
		{Name: "hindu", Keywords: []string{"hindu mythology", "god", "goddess", "epic", "mahabharata", "ramayana"}},
		{Name: "otherReligions", Keywords: []string{"buddhism", "jainism", "sikhism", "christianity", "islam", "mythology"}},
	}},
	{Name: "currentAffairs", Groups: []keywordGroup{
		{Name: "economicAffairs", Keywords: []string{"economy", "budget", "policy", "investment", "indian market"}},
		{Name: "infrastructure", Keywords: []string{"infrastructure", "development", "roads", "transportation", "urban planning"}},
		{Name: "internationalRelations", Keywords: []string{"foreign policy", "diplomacy", "alliance", "india-un relations"}},
		{Name: "healthAndEnvironment", Keywords: []string{"health", "environment", "climate change", "pollution", "conservation"}},
	}},
}

// Categorize labels an article as "category/subCategory" by keyword hits in its title and
// snippet, or UncategorizedLabel when nothing matches.
func Categorize(title, snippet string) string {
	content := strings.ToLower(title + " " + snippet)
	for _, category := range keywordTable {
		for _, group := range category.Groups {
			if group.Nested {
				continue
			}
			hits := lo.CountBy(group.Keywords, func(k string) bool { return strings.Contains(content, k) })
			if hits >= minKeywordHits {
				return category.Name + "/" + group.Name
			}
		}
	}
	return UncategorizedLabel
}
