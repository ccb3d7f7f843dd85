// Package domain models the temperature-bin tables behind the warming-count
// figures and the arithmetic that turns them into comparison tables.
//
// # Data Source
//
// Three kinds of `;`-separated tables are read from the Results directory:
//
//	temp_counts_all.csv                    occurrences of each warming bin across the AR5
//	                                       working group reports and special reports
//	counts_SR15_Full_Report_High_Res.csv   occurrences in the 1.5°C special report only
//	warming_probabilities_<ppm>ppm.csv     probability (0..1) of each warming bin for one
//	                                       CO2 concentration scenario
//
// All three are keyed by the same temperature-bin labels in the same order.
//
// # Bin Labels
//
// Labels are compared after removing every space, so "3 - 4°C" and "3-4°C" are
// the same bin (see [NormalizeBin]). The lower bound of a bin is read from its
// label (see [LowerBound]):
//
//	"below1°C", "<1°C"       →  -Inf
//	"1.5-2°C", "3 - 3.5°C"   →  first number
//	"above6°C", ">6°C"       →  the number
//
// # Comparison Tables
//
// Every scenario produces a full comparison (occurrence share vs. probability,
// both in percent), a comparison that excludes the special report, and one
// single-row tail aggregate per [TailRule]. The excluding view is normalized by
// its own total, so its occurrence column sums to 100 independently of the
// full view.
//
// Merging is an inner join on the bin label: bins missing from either side are
// dropped and reported in [Prepared.Dropped] rather than treated as an error.
package domain
