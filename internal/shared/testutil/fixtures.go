package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"vitiscli/pkg/contracts/domain"
)

// SampleExports is a small export dataset spanning 2019 to 2023. Paraguay
// grows steadily, Russia is flat and Haiti appears in only two years.
func SampleExports() []domain.TradeRecord {
	return []domain.TradeRecord{
		{Category: "Paraguay", Year: 2019, Volume: 1000, Value: 2000},
		{Category: "Paraguay", Year: 2020, Volume: 1100, Value: 2300},
		{Category: "Paraguay", Year: 2021, Volume: 1200, Value: 2600},
		{Category: "Paraguay", Year: 2022, Volume: 1300, Value: 3000},
		{Category: "Paraguay", Year: 2023, Volume: 1400, Value: 3500},
		{Category: "Russia", Year: 2019, Volume: 500, Value: 400},
		{Category: "Russia", Year: 2020, Volume: 500, Value: 400},
		{Category: "Russia", Year: 2021, Volume: 500, Value: 400},
		{Category: "Russia", Year: 2022, Volume: 500, Value: 400},
		{Category: "Russia", Year: 2023, Volume: 500, Value: 400},
		{Category: "Haiti", Year: 2022, Volume: 100, Value: 450},
		{Category: "Haiti", Year: 2023, Volume: 120, Value: 500},
	}
}

// SampleImports is a small import dataset spanning 2020 to 2023
func SampleImports() []domain.TradeRecord {
	return []domain.TradeRecord{
		{Category: "Chile", Year: 2020, Volume: 3000, Value: 6000},
		{Category: "Chile", Year: 2021, Volume: 3200, Value: 6600},
		{Category: "Chile", Year: 2022, Volume: 3100, Value: 6500},
		{Category: "Chile", Year: 2023, Volume: 3300, Value: 7200},
		{Category: "Argentina", Year: 2021, Volume: 1500, Value: 4500},
		{Category: "Argentina", Year: 2023, Volume: 1600, Value: 5000},
	}
}

// RawExportCSV is a wide raw file in the Embrapa layout
const RawExportCSV = "Id;País;2008;2008;2009;2009;2010;2010\n" +
	"1;Paraguay;100;250;200;400;300;660\n" +
	"2;Russia;0;0;50;90;;\n" +
	"3;Haiti;10;30;-;-;20;70\n"

// WriteFile writes content to name under dir and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
