package scope

import (
	"context"
	"regexp"
	"strings"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/log"
)

// lowConfidenceThreshold is the classifier confidence below which a query
// already labeled general is treated as off-topic.
const lowConfidenceThreshold = 0.3

// allowTerms are domain words that keep a query in scope no matter what
// else it mentions. Matched as lowercase substrings.
var allowTerms = []string{
	"pool", "pump", "filter", "chlorine", "chemical", "cleaner", "heater", "motor",
	"hayward", "pentair", "jandy", "zodiac", "polaris", "aqua", "intex", "bestway",
	"salt", "ph", "alkalinity", "acid", "shock", "algae", "valve", "skimmer", "drain",
	"plumbing", "pipe", "liner", "cover", "maintenance", "repair", "install", "price",
	"cost", "store", "location", "warranty", "manual", "part", "replacement", "component",
	"equipment", "accessory", "image", "picture", "photo", "diagram", "schematic",
}

// productCodePattern matches part-number shaped tokens such as LZA406103A.
var productCodePattern = regexp.MustCompile(`\b[A-Z0-9]{5,}\b`)

// rejectPatterns flag queries about topics the bot does not cover. They run
// against the lowercased query, and an allow term always overrides a match.
var rejectPatterns = compileAll([]string{
	// politics and world affairs
	`who is (the )?([a-z]+ )?(president|prime minister|pm|leader|king|queen|ruler|dictator)( of)?\b`,
	`\b(trump|biden|obama|bush|clinton|putin|modi|xi|merkel|macron)\b`,
	`\b(democrat|republican|liberal|conservative|election|vote|ballot|campaign)\b`,
	`\b(war|conflict|treaty|sanction|military|army|weapon|missile|nuclear)\b`,
	`\b(india|china|russia|ukraine|israel|palestine|iran|iraq|north korea|south korea)\b`,

	// entertainment
	`\b(movie|film|actor|actress|director|hollywood|bollywood|netflix|amazon prime|disney\+)\b`,
	`\b(tv show|series|episode|season|channel|streaming|youtube|tiktok|instagram)\b`,
	`\b(music|song|album|artist|band|concert|festival|spotify|apple music)\b`,
	`\b(game|gaming|playstation|xbox|nintendo|pc game|mobile game|fortnite|minecraft)\b`,

	// technology
	`\b(iphone|android|samsung|apple|google|microsoft|facebook|twitter|snapchat)\b`,
	`\b(computer|laptop|tablet|smartphone|gadget|tech|technology|software|hardware)\b`,
	`\b(ai|artificial intelligence|machine learning|deep learning|algorithm|neural network)\b`,
	`\b(internet|wifi|broadband|5g|4g|network|router|modem|fiber|ethernet)\b`,

	// sports
	`\b(football|soccer|basketball|baseball|cricket|tennis|golf|hockey|rugby|volleyball)\b`,
	`\b(nfl|nba|mlb|nhl|premier league|la liga|serie a|bundesliga|champions league)\b`,
	`\b(team|player|coach|manager|referee|umpire|stadium|arena|field|court|match|game|tournament)\b`,
	`\b(olympics|world cup|championship|medal|trophy|title|record|score|goal|point|win|lose|draw)\b`,

	// finance
	`\b(stock|market|invest|bitcoin|crypto|blockchain|nft|token|coin|wallet|exchange)\b`,
	`\b(economy|inflation|recession|gdp|unemployment|interest rate|fed|federal reserve)\b`,
	`\b(bank|loan|mortgage|credit|debit|card|payment|transaction|transfer|deposit|withdraw)\b`,
	`\b(tax|income|revenue|profit|loss|dividend|yield|return|asset|liability|equity)\b`,

	// education
	`\b(school|college|university|degree|diploma|certificate|education|academic|student)\b`,
	`\b(course|class|lecture|professor|teacher|instructor|tutor|mentor|curriculum)\b`,
	`\b(homework|assignment|exam|test|quiz|grade|score|gpa|sat|act|gre|gmat|lsat|mcat)\b`,
	`\b(subject|topic|discipline|field|major|minor|study|research|thesis|dissertation)\b`,

	// health
	`\b(doctor|hospital|clinic|medicine|drug|prescription|symptom|disease|condition|illness)\b`,
	`\b(covid|coronavirus|pandemic|vaccine|vaccination|booster|mask|quarantine|isolation)\b`,
	`\b(diet|nutrition|exercise|workout|fitness|gym|weight loss|calorie|protein|vitamin)\b`,

	// general knowledge question shapes
	`\b(what is the (capital|population|area|currency|language|religion) of)\b`,
	`\b(how (tall|old|big|long|far|deep|high|wide) is)\b`,
	`\b(when (was|did|will))\b`,
	`\b(why (is|are|do|does|did))\b`,
})

// rejectTopics flag the same categories by single terms, matched as whole
// words to avoid false positives inside longer words.
var rejectTopics = []string{
	// politics and geography
	"politics", "news", "government", "policy", "law", "court", "justice",
	"president", "minister", "election", "vote", "campaign", "democracy",
	"country", "nation", "state", "province", "city", "town", "village",
	"india", "china", "usa", "america", "russia", "ukraine", "europe", "asia", "africa",

	// entertainment
	"celebrity", "movie", "film", "actor", "actress", "director", "producer",
	"tv", "television", "show", "series", "episode", "season", "channel",
	"music", "song", "album", "artist", "band", "concert", "festival",
	"game", "gaming", "player", "console", "playstation", "xbox", "nintendo",

	// sports
	"sport", "team", "player", "coach", "match", "game", "tournament", "championship",
	"football", "soccer", "basketball", "baseball", "cricket", "tennis", "golf",

	// technology
	"computer", "laptop", "phone", "smartphone", "tablet", "device", "gadget",
	"software", "hardware", "app", "application", "website", "internet", "web",
	"social media", "facebook", "twitter", "instagram", "tiktok", "youtube",

	// finance
	"money", "finance", "bank", "loan", "mortgage", "credit", "debit", "card",
	"stock", "market", "invest", "bitcoin", "crypto", "blockchain", "nft",
	"economy", "inflation", "recession", "gdp", "unemployment",

	// education
	"school", "college", "university", "degree", "diploma", "certificate",
	"course", "class", "lecture", "professor", "teacher", "student", "pupil",
	"homework", "assignment", "exam", "test", "quiz", "grade", "score",

	// health
	"health", "doctor", "hospital", "clinic", "medicine", "drug", "prescription",
	"symptom", "disease", "condition", "illness", "virus", "bacteria", "infection",
	"covid", "coronavirus", "pandemic", "vaccine", "vaccination", "booster",
	"diet", "nutrition", "exercise", "workout", "fitness", "gym",
}

var rejectTopicPatterns = compileTopics(rejectTopics)

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func compileTopics(topics []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(topics))
	for i, topic := range topics {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(topic) + `\b`)
	}
	return out
}

// IntentClassifier narrows the classifier to what the gate needs.
type IntentClassifier interface {
	Classify(ctx context.Context, query string, history []core.Message) core.Intent
}

// Gate decides whether a query is about pool equipment at all. The cheap
// lexical checks run first; only a query that none of them decide reaches
// the classifier.
type Gate struct {
	classifier IntentClassifier
}

func NewGate(classifier IntentClassifier) *Gate {
	return &Gate{classifier: classifier}
}

// InScope reports whether the bot should answer the query. The checks run
// in a fixed order and the first decisive one wins:
//
//  1. A part-number shaped token keeps the query in.
//  2. Any domain allow term keeps the query in.
//  3. An off-topic pattern or whole-word topic match rejects it.
//  4. Otherwise the classifier decides; only a confident-nothing result
//     (general intent below the confidence threshold) rejects. Anything
//     ambiguous stays in scope.
func (g *Gate) InScope(ctx context.Context, query string) bool {
	logger := log.FromCtx(ctx)

	if productCodePattern.MatchString(query) {
		logger.Debug().Str("query", query).Msg("query contains product code, in scope")
		return true
	}

	lower := strings.ToLower(query)
	if containsAllowTerm(lower) {
		return true
	}

	for _, pattern := range rejectPatterns {
		if pattern.MatchString(lower) {
			logger.Debug().Str("query", query).Msg("query matches off-topic pattern")
			return false
		}
	}

	for _, topic := range rejectTopicPatterns {
		if topic.MatchString(lower) {
			logger.Debug().Str("query", query).Msg("query contains off-topic term")
			return false
		}
	}

	intent := g.classifier.Classify(ctx, query, nil)
	if intent.Confidence < lowConfidenceThreshold && intent.Primary == core.CategoryGeneral {
		logger.Debug().Str("query", query).Float64("confidence", intent.Confidence).Msg("low-confidence general query, out of scope")
		return false
	}
	return true
}

func containsAllowTerm(lower string) bool {
	for _, term := range allowTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
