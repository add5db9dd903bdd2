package models

// The report schema mirrors what the dashboard renders: four scalar overview
// groups, seven category breakdowns, and a findings section. Every section is
// a pointer or slice so "no data extracted from this chunk" stays
// distinguishable from zero values, both in the Gemini JSON contract and in
// the persisted record.

// LibraryOverview holds headline figures about the library itself.
type LibraryOverview struct {
	PopulationServed  *float64 `json:"populationServed,omitempty" firestore:"populationServed,omitempty"`
	RegisteredMembers *float64 `json:"registeredMembers,omitempty" firestore:"registeredMembers,omitempty"`
	TotalStaff        *float64 `json:"totalStaff,omitempty" firestore:"totalStaff,omitempty"`
	ServiceOutlets    *float64 `json:"serviceOutlets,omitempty" firestore:"serviceOutlets,omitempty"`
}

// CollectionOverview holds headline figures about the collection.
type CollectionOverview struct {
	TotalItems       *float64 `json:"totalItems,omitempty" firestore:"totalItems,omitempty"`
	PrintItems       *float64 `json:"printItems,omitempty" firestore:"printItems,omitempty"`
	ElectronicItems  *float64 `json:"electronicItems,omitempty" firestore:"electronicItems,omitempty"`
	AudioVisualItems *float64 `json:"audioVisualItems,omitempty" firestore:"audioVisualItems,omitempty"`
}

// UsageStatistics holds headline usage figures for the reporting year.
type UsageStatistics struct {
	TotalVisits      *float64 `json:"totalVisits,omitempty" firestore:"totalVisits,omitempty"`
	TotalCirculation *float64 `json:"totalCirculation,omitempty" firestore:"totalCirculation,omitempty"`
	WebsiteVisits    *float64 `json:"websiteVisits,omitempty" firestore:"websiteVisits,omitempty"`
	ReferenceQueries *float64 `json:"referenceQueries,omitempty" firestore:"referenceQueries,omitempty"`
}

// FinancialOverview holds headline income and expenditure figures.
type FinancialOverview struct {
	TotalIncome          *float64 `json:"totalIncome,omitempty" firestore:"totalIncome,omitempty"`
	TotalExpenditure     *float64 `json:"totalExpenditure,omitempty" firestore:"totalExpenditure,omitempty"`
	StaffExpenditure     *float64 `json:"staffExpenditure,omitempty" firestore:"staffExpenditure,omitempty"`
	MaterialsExpenditure *float64 `json:"materialsExpenditure,omitempty" firestore:"materialsExpenditure,omitempty"`
}

// ValueEntry is one named measure in a single-value category breakdown.
type ValueEntry struct {
	Name  string  `json:"name" firestore:"name"`
	Value float64 `json:"value" firestore:"value"`
}

// ProgramEntry is one named program category with session and attendance counts.
type ProgramEntry struct {
	Name       string  `json:"name" firestore:"name"`
	Sessions   float64 `json:"sessions" firestore:"sessions"`
	Attendance float64 `json:"attendance" firestore:"attendance"`
}

// SummerReadingEntry is one summer-reading category with registration,
// session and attendance counts.
type SummerReadingEntry struct {
	Name       string  `json:"name" firestore:"name"`
	Registered float64 `json:"registered" firestore:"registered"`
	Sessions   float64 `json:"sessions" firestore:"sessions"`
	Attendance float64 `json:"attendance" firestore:"attendance"`
}

// Findings holds free-text observations from the report narrative. Both
// lists are capped at MaxFindings after merging.
type Findings struct {
	Strengths           []string `json:"strengths,omitempty" firestore:"strengths,omitempty"`
	AreasForDevelopment []string `json:"areasForDevelopment,omitempty" firestore:"areasForDevelopment,omitempty"`
}

// MaxFindings caps each findings list in the merged record.
const MaxFindings = 5

// PartialRecord is the sparse result of one chunk's extraction attempt. Any
// section the model found no evidence for in that chunk is nil.
type PartialRecord struct {
	LibraryOverview    *LibraryOverview     `json:"libraryOverview,omitempty" firestore:"libraryOverview,omitempty"`
	CollectionOverview *CollectionOverview  `json:"collectionOverview,omitempty" firestore:"collectionOverview,omitempty"`
	UsageStatistics    *UsageStatistics     `json:"usageStatistics,omitempty" firestore:"usageStatistics,omitempty"`
	FinancialOverview  *FinancialOverview   `json:"financialOverview,omitempty" firestore:"financialOverview,omitempty"`
	CollectionData     []ValueEntry         `json:"collectionData,omitempty" firestore:"collectionData,omitempty"`
	CirculationData    []ValueEntry         `json:"circulationData,omitempty" firestore:"circulationData,omitempty"`
	MembershipData     []ValueEntry         `json:"membershipData,omitempty" firestore:"membershipData,omitempty"`
	DigitalResources   []ValueEntry         `json:"digitalResources,omitempty" firestore:"digitalResources,omitempty"`
	ProgramData        []ProgramEntry       `json:"programData,omitempty" firestore:"programData,omitempty"`
	OutreachData       []ProgramEntry       `json:"outreachData,omitempty" firestore:"outreachData,omitempty"`
	SummerReading      []SummerReadingEntry `json:"summerReading,omitempty" firestore:"summerReading,omitempty"`
	Findings           *Findings            `json:"findings,omitempty" firestore:"findings,omitempty"`
}

// FinalRecord is the merged, schema-complete record persisted for the
// dashboard. It shares the PartialRecord shape; sections no chunk contributed
// stay absent, which callers must read as "no data extracted", not zero.
type FinalRecord PartialRecord
