// Package ignore implements hierarchically-scoped gitignore-style pattern matching.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	commentLinePrefix = "#"
	negationPrefix    = "!"
	anchorPrefix      = "/"
	separator         = "/"
	recursiveWildcard = "**"
	singleWildcard    = "*"
)

// Rule is a single parsed ignore pattern together with its negation flag.
type Rule struct {
	pattern        string
	negated        bool
	nameExpression *regexp.Regexp
	pathExpression *regexp.Regexp
}

// ruleLayer groups the rules contributed by one source, scoped to the
// directory the source lives in. Rules of a layer only apply to paths below
// its base path.
type ruleLayer struct {
	basePath string
	rules    []Rule
}

// Matcher decides whether paths are excluded under an ordered set of rule
// layers accumulated while a traversal descends. A Matcher is bound to a root
// path; paths outside that root are never ignored. Later-added layers are
// evaluated after earlier ones, and within the full rule sequence the last
// matching rule wins, so a negated rule can resurrect a previously ignored
// path and a later plain rule can re-ignore it.
//
// A Matcher is owned by a single scan and is not safe for concurrent use.
type Matcher struct {
	rootPath string
	layers   []ruleLayer
}

// NewMatcher creates a Matcher anchored at rootPath. The provided free-form
// patterns are registered as an initial rule layer scoped to rootPath.
func NewMatcher(rootPath string, patterns []string) *Matcher {
	matcher := &Matcher{rootPath: filepath.Clean(rootPath)}
	if len(patterns) > 0 {
		matcher.AddPatterns(matcher.rootPath, patterns)
	}
	return matcher
}

// RootPath returns the anchor below which the matcher evaluates rules.
func (matcher *Matcher) RootPath() string {
	return matcher.rootPath
}

// AddPatternsFromFile parses the ignore file at ignoreFilePath and registers
// its rules scoped to the file's parent directory. A missing or unreadable
// file is a silent no-op.
func (matcher *Matcher) AddPatternsFromFile(ignoreFilePath string) {
	fileInformation, statError := os.Stat(ignoreFilePath)
	if statError != nil || !fileInformation.Mode().IsRegular() {
		return
	}
	fileData, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		return
	}
	matcher.AddPatterns(filepath.Dir(ignoreFilePath), strings.Split(string(fileData), "\n"))
}

// AddPatterns parses raw ignore lines and appends them as a rule layer scoped
// to basePath. Blank lines and comment lines are skipped, a leading "!" marks
// negation, a trailing "/" (directory-only marker) is stripped, and a run of
// "**" is collapsed to a single "*" — a simplified stand-in for recursive
// glob semantics, not a full implementation.
func (matcher *Matcher) AddPatterns(basePath string, lines []string) {
	var parsedRules []Rule
	for _, rawLine := range lines {
		trimmedLine := strings.TrimSpace(rawLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentLinePrefix) {
			continue
		}

		negated := strings.HasPrefix(trimmedLine, negationPrefix)
		if negated {
			trimmedLine = strings.TrimPrefix(trimmedLine, negationPrefix)
		}
		trimmedLine = strings.TrimRight(trimmedLine, separator)
		if trimmedLine == "" {
			continue
		}
		pattern := strings.ReplaceAll(trimmedLine, recursiveWildcard, singleWildcard)

		parsedRules = append(parsedRules, Rule{
			pattern:        pattern,
			negated:        negated,
			nameExpression: compileGlob(pattern),
			pathExpression: compileGlob(strings.TrimPrefix(pattern, anchorPrefix)),
		})
	}
	if len(parsedRules) > 0 {
		matcher.layers = append(matcher.layers, ruleLayer{basePath: filepath.Clean(basePath), rules: parsedRules})
	}
}

// IsIgnored reports whether candidatePath is excluded by the accumulated
// rules. Paths not lexically under the matcher's root are never ignored.
// Layers whose base path is not an ancestor of candidatePath are skipped.
func (matcher *Matcher) IsIgnored(candidatePath string) bool {
	cleanPath := filepath.Clean(candidatePath)
	if !isWithin(cleanPath, matcher.rootPath) {
		return false
	}

	entryName := filepath.Base(cleanPath)
	ignored := false

	for _, layer := range matcher.layers {
		relativeToBase, relativeError := filepath.Rel(layer.basePath, cleanPath)
		if relativeError != nil || escapesBase(relativeToBase) {
			continue
		}
		slashRelative := filepath.ToSlash(relativeToBase)

		for _, rule := range layer.rules {
			matched := false
			if !strings.Contains(rule.pattern, separator) {
				matched = matchExpression(rule.nameExpression, entryName)
			}
			if !matched {
				matched = matchExpression(rule.pathExpression, slashRelative)
			}
			if matched {
				ignored = !rule.negated
			}
		}
	}

	return ignored
}

func isWithin(candidatePath, rootPath string) bool {
	relativePath, relativeError := filepath.Rel(rootPath, candidatePath)
	if relativeError != nil {
		return false
	}
	return !escapesBase(relativePath)
}

func escapesBase(relativePath string) bool {
	return relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator))
}

func matchExpression(expression *regexp.Regexp, value string) bool {
	return expression != nil && expression.MatchString(value)
}

// compileGlob translates a glob pattern into an anchored regular expression
// with fnmatch semantics: "*" matches any run of characters including path
// separators, "?" matches a single character, and bracket classes are kept.
// A malformed pattern yields nil, which never matches.
func compileGlob(pattern string) *regexp.Regexp {
	var expression strings.Builder
	expression.WriteString("(?s)^")
	for index := 0; index < len(pattern); index++ {
		switch character := pattern[index]; character {
		case '*':
			expression.WriteString(".*")
		case '?':
			expression.WriteString(".")
		case '[':
			closing := findClassEnd(pattern, index)
			if closing < 0 {
				expression.WriteString(regexp.QuoteMeta("["))
				continue
			}
			classBody := pattern[index+1 : closing]
			if strings.HasPrefix(classBody, "!") {
				classBody = "^" + classBody[1:]
			}
			classBody = strings.ReplaceAll(classBody, `\`, `\\`)
			expression.WriteString("[" + classBody + "]")
			index = closing
		default:
			expression.WriteString(regexp.QuoteMeta(string(character)))
		}
	}
	expression.WriteString("$")

	compiled, compileError := regexp.Compile(expression.String())
	if compileError != nil {
		return nil
	}
	return compiled
}

// findClassEnd returns the index of the bracket closing the character class
// that opens at openIndex, or -1 when the class never closes. A "]" directly
// after the opening bracket (or after a leading negation) is a literal member.
func findClassEnd(pattern string, openIndex int) int {
	scanIndex := openIndex + 1
	if scanIndex < len(pattern) && (pattern[scanIndex] == '!' || pattern[scanIndex] == '^') {
		scanIndex++
	}
	if scanIndex < len(pattern) && pattern[scanIndex] == ']' {
		scanIndex++
	}
	for scanIndex < len(pattern) && pattern[scanIndex] != ']' {
		scanIndex++
	}
	if scanIndex >= len(pattern) {
		return -1
	}
	return scanIndex
}
