package extraction

// PageBreakMarker separates per-page transcriptions in a merged record.
const PageBreakMarker = "\n\n--- PAGE BREAK ---\n\n"

// Merge combines per-page extraction records into a single document
// record. Page 1 wins for scalar metadata; text fields concatenate with
// page-break markers; reference numbers and key terms dedupe preserving
// order; the highest urgency across pages wins; the amount falls back to
// the sum of detail lines when page 1 captured none.
func Merge(pages []Record) Record {
	if len(pages) == 0 {
		return Record{}
	}
	if len(pages) == 1 {
		return pages[0]
	}

	merged := pages[0]

	var texts []string
	var actions ActionItems
	var amounts AmountLines
	var refs StringList
	var terms StringList

	for _, page := range pages {
		if page.FullText != "" {
			texts = append(texts, page.FullText)
		}
		actions = append(actions, page.ActionItems...)
		amounts = append(amounts, page.AmountsDetail...)
		refs = append(refs, page.ReferenceNumbers...)
		terms = append(terms, page.KeyTerms...)
	}

	merged.FullText = joinPages(texts)
	merged.ActionItems = actions
	merged.AmountsDetail = amounts
	merged.ReferenceNumbers = dedupe(refs)
	merged.KeyTerms = dedupe(terms)

	urgency := pages[0].Urgency
	for _, page := range pages[1:] {
		urgency = MaxUrgency(urgency, page.Urgency)
	}
	merged.Urgency = urgency

	if merged.AmountValue() == nil && len(amounts) > 0 {
		var total Amount
		for _, line := range amounts {
			total += Amount(line.Amount)
		}
		merged.Amount = &total
	}

	return merged
}

func joinPages(texts []string) string {
	var out string
	for i, t := range texts {
		if i > 0 {
			out += PageBreakMarker
		}
		out += t
	}
	return out
}

func dedupe(values StringList) StringList {
	seen := make(map[string]struct{}, len(values))
	out := make(StringList, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
