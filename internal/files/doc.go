// Package files discovers the data files of each pipeline stage: raw
// Embrapa tables, processed long-format datasets and exported report tables.
//
// Example usage:
//
//	catalog := files.NewCatalog(paths)
//	inventory, err := catalog.Inventory()
//
//	// Resolve a report for download; names with separators are rejected
//	report, err := catalog.ReportFile("comparison_exp_imp.csv")
package files
