package lexicon

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/dkrebs/navilex/internal/model"
)

// pageDoc wraps a parsed dictionary page.
type pageDoc struct {
	root *html.Node
}

func parsePage(content string) (*pageDoc, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &pageDoc{root: doc}, nil
}

// resultContainers returns every result container on the page.
func resultContainers(doc *pageDoc) []*html.Node {
	return findAll(doc.root, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "umgebend")
	})
}

// formsContainers returns only the result containers under the
// "lat. Formen" heading, stopping at the next section heading. The phrases
// section also holds containers, but those are not forms of the word.
func formsContainers(doc *pageDoc) []*html.Node {
	headers := findAll(doc.root, func(n *html.Node) bool {
		return isElement(n, "h3") && hasClass(n, "ergebnis")
	})

	var containers []*html.Node
	for _, h3 := range headers {
		if !strings.Contains(cleanText(nodeText(h3)), "lat. Formen") {
			continue
		}
		for sibling := h3.NextSibling; sibling != nil; sibling = sibling.NextSibling {
			if sibling.Type != html.ElementNode {
				continue
			}
			if sibling.Data == "h3" {
				break
			}
			if sibling.Data == "div" && hasClass(sibling, "umgebend") {
				containers = append(containers, sibling)
			}
		}
	}
	return containers
}

// parseResultContainer extracts one record from a result container.
// Only the underlined word in the grammar line counts as a real form of
// the lemma; mentions in example sentences are ignored.
func parseResultContainer(container *html.Node, word string, nr int) model.LookupRecord {
	record := model.LookupRecord{
		WordForm:     word,
		Nr:           nr,
		Alternatives: []model.Alternative{},
	}

	inner := findFirst(container, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "innen")
	})
	if inner == nil {
		return record
	}

	// Lemma: div.lemma > span, with the part of speech appended when present.
	if lemmaDiv := findFirst(inner, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "lemma")
	}); lemmaDiv != nil {
		if span := findFirst(lemmaDiv, func(n *html.Node) bool {
			return isElement(n, "span")
		}); span != nil {
			record.Lemma = cleanText(nodeText(span))
			record.Found = true
		}
		if wortart := findFirst(lemmaDiv, func(n *html.Node) bool {
			return isElement(n, "i") && hasClass(n, "wortart")
		}); wortart != nil && record.Lemma != "" {
			record.Lemma += " " + cleanText(nodeText(wortart))
		}
	}

	// Grammar line: the first div containing a <u> tag. The underlined word
	// is the exact form belonging to this lemma.
	wordLower := strings.ToLower(word)
	for _, div := range findAll(inner, func(n *html.Node) bool {
		return isElement(n, "div")
	}) {
		u := findFirst(div, func(n *html.Node) bool {
			return isElement(n, "u")
		})
		if u == nil {
			continue
		}
		if strings.ToLower(cleanText(nodeText(u))) == wordLower {
			record.WordMatches = true
		}
		// Format is usually "word: Grammar Info".
		if text := cleanText(nodeText(div)); strings.Contains(text, ":") {
			record.Grammar = strings.TrimSpace(strings.SplitN(text, ":", 2)[1])
		}
		break
	}

	// Translations: ol > li > .bedeutung, at most five.
	if ol := findFirst(inner, func(n *html.Node) bool {
		return isElement(n, "ol")
	}); ol != nil {
		var meanings []string
		for _, li := range findAll(ol, func(n *html.Node) bool {
			return isElement(n, "li")
		}) {
			if len(meanings) == 5 {
				break
			}
			bedeutung := findFirst(li, func(n *html.Node) bool {
				return hasClass(n, "bedeutung")
			})
			if bedeutung == nil {
				continue
			}
			if text := cleanText(nodeText(bedeutung)); text != "" {
				meanings = append(meanings, text)
			}
		}
		if len(meanings) > 0 {
			record.Translation = strings.Join(meanings, "; ")
		}
	}

	// Best-effort fallback of unclear reliability: a short line with commas
	// in the entry body is probably a translation list.
	if record.Translation == "" {
		for _, line := range strings.Split(blockText(inner), "\n") {
			line = cleanText(line)
			if line != "" && strings.Contains(line, ",") && len(line) < 150 {
				record.Translation = line
				break
			}
		}
	}

	return record
}

// grammarPatterns recognize German morphological descriptions in the old
// page layout, where results are not wrapped in containers.
var grammarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.\s*Pers\.\s*(?:Sg|Pl)\.\s*(?:Präs|Perf|Imperf|Plusq|Fut)\.\s*(?:Ind|Konj|Imp)\.\s*(?:Akt|Pass)\.?`),
	regexp.MustCompile(`(?:Nom|Gen|Dat|Akk|Abl|Vok)\.\s*(?:Sg|Pl)\.?`),
	regexp.MustCompile(`Inf\.\s*(?:Präs|Perf|Fut)\.\s*(?:Akt|Pass)\.?`),
}

// parseLegacyPage scans the whole page text for grammar patterns.
func parseLegacyPage(doc *pageDoc, word string, nr int, pageURL string) model.LookupRecord {
	record := model.LookupRecord{
		WordForm:     word,
		Nr:           nr,
		Alternatives: []model.Alternative{},
		URL:          pageURL,
	}

	text := nodeText(doc.root)
	for _, pattern := range grammarPatterns {
		if match := pattern.FindString(text); match != "" {
			record.Grammar = match
			record.Found = true
			break
		}
	}
	return record
}

// ---- node helpers -------------------------------------------------------

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// findAll returns all descendants of n matching pred, in document order.
// n itself is not considered.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if pred(c) {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

// findFirst returns the first descendant of n matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// nodeText concatenates all text under n, skipping scripts and styles.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			buf.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// blockText is nodeText with newlines after block-level elements, so line
// oriented heuristics can see the page structure.
func blockText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			buf.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if node.Type == html.ElementNode {
			switch node.Data {
			case "div", "p", "li", "br", "h1", "h2", "h3", "h4", "ol", "ul":
				buf.WriteString("\n")
			}
		}
	}
	walk(n)
	return buf.String()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanText collapses whitespace runs and trims the ends.
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
