package docproc

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bluepencil/citecheck/internal/model"
)

// QualityReport captures metrics about one marked region's extracted text.
type QualityReport struct {
	Score             float64 `json:"score"` // [0,1]
	AlnumRatio        float64 `json:"alnum_ratio"`
	BadPunctRatio     float64 `json:"bad_punct_ratio"`
	GarbageCount      int     `json:"garbage_count"`
	AvgWordLength     float64 `json:"avg_word_length"`
	WhitespaceRuns    int     `json:"whitespace_runs"`
	MissingSpaceCount int     `json:"missing_space_count"`
	HardIssue         bool    `json:"hard_issue"` // Control characters present
	IsCorrupted       bool    `json:"is_corrupted"`
}

// punctAllowlist is the small set of punctuation expected in clean legal
// text; anything else counts toward the bad-punctuation ratio.
const punctAllowlist = `.,;:'"()[]-–—§¶&/’“”`

// Garbage patterns in extracted text. Each match counts once toward the
// garbage total.
var garbagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[^\sa-zA-Z0-9]{3,}`),            // Long runs of non-alphanumerics
	regexp.MustCompile(`[a-z]{25,}`),                    // Abnormally long all-lowercase runs
	regexp.MustCompile(`(?:\b[a-zA-Z]{1,2}\b[ ]+){4,}`), // Repeated 1-2 letter "words"
	regexp.MustCompile(`[b-df-hj-np-tv-xz]{4,}`),        // Consonant jams
	regexp.MustCompile(`[a-z]{2,}\d{3,}`),               // Letters jammed against digits
}

var longWhitespaceRe = regexp.MustCompile(`[ \t]{5,}`)

// AssessQuality scores one region's extracted text. The score starts at
// 1.0 and fixed penalties are subtracted per threshold breach, clamped
// to [0,1]. Every heuristic only ever lowers the score, so degrading any
// input metric cannot raise the result.
func AssessQuality(text string, cfg model.QualityConfig) QualityReport {
	if cfg.AlnumRatioFloor == 0 {
		cfg = model.DefaultConfig().Quality
	}

	report := QualityReport{Score: 1.0}
	if strings.TrimSpace(text) == "" {
		report.Score = 0
		report.IsCorrupted = true
		return report
	}

	total := 0
	alnum := 0
	badPunct := 0
	for _, r := range text {
		total++
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			alnum++
		case strings.ContainsRune(punctAllowlist, r):
			// Expected punctuation.
		case unicode.IsControl(r):
			report.HardIssue = true
			badPunct++
		default:
			badPunct++
		}
	}
	report.AlnumRatio = float64(alnum) / float64(total)
	report.BadPunctRatio = float64(badPunct) / float64(total)

	for _, pat := range garbagePatterns {
		report.GarbageCount += len(pat.FindAllString(text, -1))
	}

	words := strings.Fields(text)
	if len(words) > 0 {
		sum := 0
		for _, w := range words {
			sum += len([]rune(w))
		}
		report.AvgWordLength = float64(sum) / float64(len(words))
	}

	report.WhitespaceRuns = len(longWhitespaceRe.FindAllString(text, -1))
	report.MissingSpaceCount = countCaseTransitions(text)

	score := 1.0
	if report.AlnumRatio < cfg.AlnumRatioFloor {
		score -= 0.3
	}
	if report.BadPunctRatio > 0.2 {
		score -= 0.2
	}
	switch {
	case report.GarbageCount > 3:
		score -= 0.4
	case report.GarbageCount > 0:
		score -= 0.1 * float64(report.GarbageCount)
	}
	if report.AvgWordLength < 2 || report.AvgWordLength > 12 {
		score -= 0.2
	}
	if report.MissingSpaceCount > 5 {
		score -= 0.15
	}
	if report.WhitespaceRuns > 2 {
		score -= 0.1
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	report.Score = score
	report.IsCorrupted = score < cfg.CorruptedThreshold || report.HardIssue
	return report
}

// countCaseTransitions counts lowercase-immediately-followed-by-uppercase
// positions, a proxy for missing spaces in degraded extraction.
func countCaseTransitions(text string) int {
	count := 0
	var prev rune
	for _, r := range text {
		if unicode.IsLower(prev) && unicode.IsUpper(r) {
			count++
		}
		prev = r
	}
	return count
}
