package services

import (
	"github.com/Lllllllleong/libraryreportflow/internal/models"
)

// MergeRecords folds an ordered sequence of per-chunk partial records into
// one final record. The merge is deterministic and order-dependent:
//
//   - Scalar overview groups: the first chunk to populate a group wins it
//     wholesale; later chunks' versions of that group are ignored.
//   - Category breakdowns: entries are folded in chunk order. A duplicate
//     name within a section sums every numeric field into the first-seen
//     entry; new names append, preserving first-seen order.
//   - Findings: deduplicated per list (exact string match) in order of first
//     appearance, then capped at models.MaxFindings.
//
// Sections absent from every partial stay absent from the final record.
func MergeRecords(partials []*models.PartialRecord) *models.FinalRecord {
	final := &models.FinalRecord{}

	for _, p := range partials {
		if p == nil {
			continue
		}

		if final.LibraryOverview == nil {
			final.LibraryOverview = p.LibraryOverview
		}
		if final.CollectionOverview == nil {
			final.CollectionOverview = p.CollectionOverview
		}
		if final.UsageStatistics == nil {
			final.UsageStatistics = p.UsageStatistics
		}
		if final.FinancialOverview == nil {
			final.FinancialOverview = p.FinancialOverview
		}

		final.CollectionData = mergeValueEntries(final.CollectionData, p.CollectionData)
		final.CirculationData = mergeValueEntries(final.CirculationData, p.CirculationData)
		final.MembershipData = mergeValueEntries(final.MembershipData, p.MembershipData)
		final.DigitalResources = mergeValueEntries(final.DigitalResources, p.DigitalResources)
		final.ProgramData = mergeProgramEntries(final.ProgramData, p.ProgramData)
		final.OutreachData = mergeProgramEntries(final.OutreachData, p.OutreachData)
		final.SummerReading = mergeSummerReadingEntries(final.SummerReading, p.SummerReading)

		if p.Findings != nil {
			if final.Findings == nil {
				final.Findings = &models.Findings{}
			}
			final.Findings.Strengths = appendDistinct(final.Findings.Strengths, p.Findings.Strengths)
			final.Findings.AreasForDevelopment = appendDistinct(final.Findings.AreasForDevelopment, p.Findings.AreasForDevelopment)
		}
	}

	if final.Findings != nil {
		final.Findings.Strengths = capList(final.Findings.Strengths, models.MaxFindings)
		final.Findings.AreasForDevelopment = capList(final.Findings.AreasForDevelopment, models.MaxFindings)
	}

	return final
}

func mergeValueEntries(existing, incoming []models.ValueEntry) []models.ValueEntry {
	for _, in := range incoming {
		merged := false
		for i := range existing {
			if existing[i].Name == in.Name {
				existing[i].Value += in.Value
				merged = true
				break
			}
		}
		if !merged {
			existing = append(existing, in)
		}
	}
	return existing
}

func mergeProgramEntries(existing, incoming []models.ProgramEntry) []models.ProgramEntry {
	for _, in := range incoming {
		merged := false
		for i := range existing {
			if existing[i].Name == in.Name {
				existing[i].Sessions += in.Sessions
				existing[i].Attendance += in.Attendance
				merged = true
				break
			}
		}
		if !merged {
			existing = append(existing, in)
		}
	}
	return existing
}

// mergeSummerReadingEntries sums registered alongside sessions and
// attendance, matching the dashboard's established behaviour for duplicate
// categories.
func mergeSummerReadingEntries(existing, incoming []models.SummerReadingEntry) []models.SummerReadingEntry {
	for _, in := range incoming {
		merged := false
		for i := range existing {
			if existing[i].Name == in.Name {
				existing[i].Registered += in.Registered
				existing[i].Sessions += in.Sessions
				existing[i].Attendance += in.Attendance
				merged = true
				break
			}
		}
		if !merged {
			existing = append(existing, in)
		}
	}
	return existing
}

// appendDistinct appends the incoming strings that are not already present,
// preserving order of first appearance. Matching is exact and case-sensitive.
func appendDistinct(existing, incoming []string) []string {
	for _, in := range incoming {
		seen := false
		for _, have := range existing {
			if have == in {
				seen = true
				break
			}
		}
		if !seen {
			existing = append(existing, in)
		}
	}
	return existing
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}
