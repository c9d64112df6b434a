package chunker

import (
	"strings"
)

const (
	// DefaultChunkSize is sized for embedding context windows (~250 tokens).
	DefaultChunkSize = 1000
	// DefaultOverlap preserves context across chunk boundaries.
	DefaultOverlap = 200
)

// boundarySearchRatio constrains break-point search to the tail of the window
// so chunks stay close to the target size.
const boundarySearchRatio = 0.2

// minProgressRatio guarantees forward progress even when overlap >= chunkSize.
const minProgressRatio = 0.1

var sentenceTerminators = []string{". ", "! ", "? "}

// Split divides text into overlapping chunks aligned to natural boundaries.
// Break points are chosen by descending priority inside the last 20% of each
// window: paragraph break, then sentence end, then word boundary, then a hard
// cut. Consecutive chunks overlap by up to 'overlap' characters but their
// start positions always strictly advance, so the loop terminates for any
// input. Every returned chunk is non-empty after trimming.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	// Normalize line endings so paragraph detection sees a single convention.
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	runes := []rune(normalized)
	if len(runes) <= chunkSize {
		trimmed := strings.TrimSpace(normalized)
		if trimmed == "" {
			return []string{}
		}
		return []string{trimmed}
	}

	minProgress := int(minProgressRatio * float64(chunkSize))
	if minProgress < 1 {
		minProgress = 1
	}

	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			// The remainder becomes the final chunk.
			last := strings.TrimSpace(string(runes[start:]))
			if last != "" {
				chunks = append(chunks, last)
			}
			break
		}

		breakPoint := findBreakPoint(runes, start, end, chunkSize)

		chunk := strings.TrimSpace(string(runes[start:breakPoint]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := breakPoint - overlap
		if next <= start+minProgress {
			next = start + minProgress
		}
		next = alignToWordStart(runes, next, start, breakPoint)
		if next <= start {
			// Alignment walked back to the current start; progress wins.
			next = start + minProgress
		}

		start = next
	}

	return chunks
}

// findBreakPoint picks the best boundary within (searchStart, end], falling
// back to a hard cut at end.
func findBreakPoint(runes []rune, start, end, chunkSize int) int {
	searchStart := end - int(boundarySearchRatio*float64(chunkSize))
	if searchStart < start {
		searchStart = start
	}

	window := string(runes[searchStart:end])

	// Priority 1: paragraph break.
	if idx := strings.LastIndex(window, "\n\n"); idx >= 0 {
		return searchStart + runeLen(window[:idx]) + 2
	}

	// Priority 2: sentence terminator, break just after the punctuation.
	best := -1
	for _, term := range sentenceTerminators {
		if idx := strings.LastIndex(window, term); idx >= 0 {
			candidate := runeLen(window[:idx]) + 1
			if candidate > best {
				best = candidate
			}
		}
	}
	if best >= 0 {
		return searchStart + best
	}

	// Priority 3: word boundary.
	if idx := strings.LastIndex(window, " "); idx >= 0 {
		return searchStart + runeLen(window[:idx])
	}

	// Priority 4: hard cut.
	return end
}

// alignToWordStart walks backward to the nearest space or newline so the next
// chunk does not begin mid-word. It never moves before floor nor past ceil.
func alignToWordStart(runes []rune, pos, floor, ceil int) int {
	if pos > ceil {
		pos = ceil
	}
	for pos > floor {
		prev := runes[pos-1]
		if prev == ' ' || prev == '\n' {
			return pos
		}
		pos--
	}
	return pos
}

func runeLen(s string) int {
	return len([]rune(s))
}
