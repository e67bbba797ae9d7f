package rules

import (
	"math"
	"regexp"
	"strings"

	"github.com/thisrohangupta/agents/internal/expr"
)

// secretPrefixes mark well-known credential formats.
var secretPrefixes = []string{
	"sk-", "ghp_", "gho_", "ghs_", "ghu_", "github_pat_",
	"xoxb-", "xoxp-", "xoxa-", "AKIA", "glpat-",
}

const (
	minSecretLength = 16
	minEntropy      = 3.5
	bearerPrefix    = "Bearer "
)

// SecretLike reports the first token in text that looks like a literal
// credential. Expression tokens and shell variables are never secrets.
func SecretLike(text string) (string, bool) {
	if i := strings.Index(text, bearerPrefix); i >= 0 {
		rest := strings.Fields(text[i+len(bearerPrefix):])
		if len(rest) > 0 && literalCredential(rest[0]) {
			return bearerPrefix + strings.Trim(rest[0], `"'`), true
		}
	}
	for _, tok := range strings.FieldsFunc(text, isSecretSeparator) {
		if strings.Contains(tok, expr.Open) {
			continue
		}
		for _, prefix := range secretPrefixes {
			if strings.HasPrefix(tok, prefix) && len(tok) > len(prefix)+4 {
				return tok, true
			}
		}
		if highEntropy(tok) {
			return tok, true
		}
	}
	return "", false
}

func isSecretSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '"', '\'', '`', ',', ';', '=', ':', '(', ')', '{', '}', '[', ']':
		return true
	}
	return false
}

func literalCredential(tok string) bool {
	tok = strings.Trim(tok, `"'`)
	return len(tok) >= 8 && !strings.HasPrefix(tok, "$") && !strings.Contains(tok, expr.Open)
}

// highEntropy flags long random-looking tokens: letters and digits in one
// unbroken run of at least minSecretLength, with enough entropy. Hyphen and
// underscore split runs, so dashed identifiers such as cluster names are
// not flagged. Paths are skipped.
func highEntropy(tok string) bool {
	if len(tok) < minSecretLength || strings.HasPrefix(tok, "/") || strings.Contains(tok, "//") {
		return false
	}
	letters, digits := false, false
	run, longest := 0, 0
	for _, c := range tok {
		switch {
		case c >= '0' && c <= '9':
			digits = true
			run++
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			letters = true
			run++
		case c == '+' || c == '/':
			run++
		case c == '_' || c == '-':
			run = 0
		default:
			return false
		}
		longest = max(longest, run)
	}
	return letters && digits && longest >= minSecretLength && entropy(tok) >= minEntropy
}

// entropy is the Shannon entropy of s in bits per byte.
func entropy(s string) float64 {
	var counts [256]int
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	var h float64
	n := float64(len(s))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

func redact(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}

var (
	printCommand = regexp.MustCompile(`^(?:echo|printf|print)\b`)
	shellVar     = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)
	commandSplit = regexp.MustCompile(`\n|;|&&|\|\||\|`)
)

// PrintedSecrets returns the secret inputs that text prints, either through
// an environment variable bound to one (bound maps variable to input) or
// through a direct input expression. isSecret classifies input names.
func PrintedSecrets(text string, bound map[string]string, isSecret func(string) bool) []string {
	var out []string
	for _, command := range commandSplit.Split(text, -1) {
		command = strings.TrimSpace(command)
		if !printCommand.MatchString(command) {
			continue
		}
		for _, m := range shellVar.FindAllStringSubmatch(command, -1) {
			if input, ok := bound[m[1]]; ok {
				out = append(out, input)
			}
		}
		refs, _ := expr.Extract(command)
		for _, ref := range refs {
			if ref.Kind == expr.KindInput && isSecret(ref.Target()) {
				out = append(out, ref.Target())
			}
		}
	}
	return out
}
