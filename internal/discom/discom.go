package discom

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"
)

// Discom describes one electricity distribution company. The table is
// static reference data compiled into the binary.
type Discom struct {
	State                string  `json:"state"`
	Name                 string  `json:"discom"`
	ConsumersMillions    float64 `json:"totalConsumersMillions"`
	SalesMU              float64 `json:"totalElectricitySalesMU"`
	RevenueCrore         float64 `json:"totalRevenueCrore"`
	ATCLossesPct         float64 `json:"atcLossesPct"`
	PowerPurchaseCostKWh float64 `json:"avgPowerPurchaseCostKWh"`
	CostOfSupplyKWh      float64 `json:"avgCostOfSupplyKWh"`
	BillingRateKWh       float64 `json:"avgBillingRateKWh"`
	ProfitLossCrore      float64 `json:"profitLossCrore"`
}

//go:embed providers.json
var providersRaw []byte

var (
	loadOnce  sync.Once
	providers map[string]Discom
)

func load() {
	loadOnce.Do(func() {
		var doc struct {
			Discoms []Discom `json:"discoms"`
		}
		providers = make(map[string]Discom)
		if err := json.Unmarshal(providersRaw, &doc); err != nil {
			return
		}
		for _, d := range doc.Discoms {
			providers[strings.ToLower(d.Name)] = d
		}
	})
}

// Lookup finds a provider by name, case-insensitively.
func Lookup(name string) (Discom, bool) {
	load()
	d, ok := providers[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Names lists the known provider names.
func Names() []string {
	load()
	names := make([]string, 0, len(providers))
	for _, d := range providers {
		names = append(names, d.Name)
	}
	return names
}
