// Package ingest turns the raw Embrapa/Vitibrasil trade files into validated
// long-format trade records and reads and writes the processed datasets.
//
// Raw files are wide: one row per partner country and, for every year, a
// quantity column in kilograms followed by a value column in USD. Ingestion
// keeps only cells with positive quantity and value inside a year window and
// takes 1 kg as 1 L.
package ingest
