package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/hayeah/treetxt/internal/metrics"
)

// trimPrefix returns s unchanged when it fits in max runes; otherwise
// "…" + the last max-1 runes, preserving the suffix.
func trimPrefix(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return "…" + string(runes[len(runes)-max+1:])
}

// termWidth returns the width of the terminal, or 80 as a fallback.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// printTokenBreakdown prints how much each artifact section contributes to
// the total token count. Bars are normalized to the largest section, and the
// layout adapts to the terminal width.
func printTokenBreakdown(r *metrics.Report, barW int, fill rune) {
	const (
		pctW    = 6 // "100.0%"
		tokensW = 6 // right-aligned "123456"
		gapW    = 2
	)

	tw := termWidth()
	if barW <= 0 {
		barW = int(float64(tw) * 0.35)
	}
	keyW := tw - (barW + pctW + tokensW + gapW*3)
	if keyW < 8 {
		keyW = 8
	}

	r.Wait()
	items := r.Items()

	var totalTokens, maxTokens, fileCount int
	for k, item := range items {
		totalTokens += item.Tokens
		if item.Tokens > maxTokens {
			maxTokens = item.Tokens
		}
		if k.Kind == "file" {
			fileCount++
		}
	}

	if totalTokens == 0 || maxTokens == 0 {
		fmt.Println("No tokens recorded")
		return
	}

	type entry struct {
		key    metrics.SectionKey
		tokens int
		pct    float64
	}
	entries := make([]entry, 0, len(items))
	for k, item := range items {
		entries = append(entries, entry{
			key:    k,
			tokens: item.Tokens,
			pct:    float64(item.Tokens) * 100 / float64(totalTokens),
		})
	}

	// Lowest contributors first, so the biggest ones end up near the prompt.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].pct < entries[j].pct
	})

	for _, e := range entries {
		ratio := float64(e.tokens) / float64(maxTokens)
		barLen := int(ratio*float64(barW) + 0.5)
		if barLen == 0 && e.tokens > 0 {
			barLen = 1
		}
		bar := strings.Repeat(string(fill), barLen)
		key := trimPrefix(e.key.String(), keyW)
		fmt.Printf("%-*s  %5.1f%%  %*d  %-*s\n", barW, bar, e.pct, tokensW, e.tokens, keyW, key)
	}

	sep := strings.Repeat("─", barW)
	fmt.Printf("%-*s  %5.1f%%  %*d  %-*s\n", barW, sep, 100.0, tokensW, totalTokens, keyW, "TOTAL")

	fmt.Printf("\nSummary: %d files, %d tokens\n", fileCount, totalTokens)
}
