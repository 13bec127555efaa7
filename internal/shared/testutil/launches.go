package testutil

import (
	"strings"
	"testing"

	"launchdash/internal/dataset"
	"launchdash/pkg/contracts/domain"
)

// ScenarioLaunches is the three-row reference scenario: two launches from
// site A and one from site B.
func ScenarioLaunches() []domain.Launch {
	return []domain.Launch{
		{Site: "A", Outcome: 1, PayloadMassKG: 500, BoosterCategory: "v1"},
		{Site: "A", Outcome: 0, PayloadMassKG: 1500, BoosterCategory: "v1"},
		{Site: "B", Outcome: 1, PayloadMassKG: 2500, BoosterCategory: "v2"},
	}
}

// ScenarioDataset wraps ScenarioLaunches in a dataset
func ScenarioDataset() *dataset.Dataset {
	return dataset.New("scenario", ScenarioLaunches())
}

// LaunchesCSV is a small file in the launch records layout, with the
// unnamed index column and every site of the real dataset.
const LaunchesCSV = `,Flight Number,Launch Site,class,Payload Mass (kg),Booster Version,Booster Version Category
0,1,CCAFS LC-40,0,0.0,F9 v1.0  B0003,v1.0
1,6,CCAFS LC-40,0,500.0,F9 v1.0  B0006,v1.0
2,7,VAFB SLC-4E,0,500.0,F9 v1.1  B1003,v1.1
3,20,KSC LC-39A,1,2490.0,F9 FT B1031.1,FT
4,21,KSC LC-39A,0,5600.0,F9 FT B1030,FT
5,22,KSC LC-39A,1,5300.0,F9 FT B1021.2,FT
6,23,CCAFS SLC-40,1,3669.0,F9 FT B1035.1,FT
7,24,VAFB SLC-4E,1,9600.0,F9 FT B1036.1,FT
`

// ParseDataset reads csv with dataset.ReadCSV and fails the test on error
func ParseDataset(t testing.TB, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(csv), "fixture")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return ds
}
