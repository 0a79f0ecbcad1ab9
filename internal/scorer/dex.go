package scorer

import (
	"log/slog"
	"sync"

	"carddex/internal/logging"
	"carddex/internal/normalize"
)

// stubDexTable maps species names to their National Pokedex numbers. The
// table covers the species that dominate graded-card listings; a miss means
// "not a known dex number", never an error.
var stubDexTable = map[string]string{
	"bulbasaur":  "1",
	"ivysaur":    "2",
	"venusaur":   "3",
	"charmander": "4",
	"charmeleon": "5",
	"charizard":  "6",
	"squirtle":   "7",
	"wartortle":  "8",
	"blastoise":  "9",
	"pikachu":    "25",
	"raichu":     "26",
	"jigglypuff": "39",
	"machamp":    "68",
	"gengar":     "94",
	"gyarados":   "130",
	"lapras":     "131",
	"eevee":      "133",
	"vaporeon":   "134",
	"jolteon":    "135",
	"flareon":    "136",
	"snorlax":    "143",
	"articuno":   "144",
	"zapdos":     "145",
	"moltres":    "146",
	"dragonite":  "149",
	"mewtwo":     "150",
	"mew":        "151",
	"lugia":      "249",
	"rayquaza":   "384",
}

// StubDex is a table-backed enrichment collaborator for National-Dex lookups.
// It logs once on first use so operators know resolution is running without a
// live enrichment service.
type StubDex struct {
	logger *slog.Logger
	once   sync.Once
}

// NewStubDex creates the stub collaborator. logger may be nil.
func NewStubDex(logger *slog.Logger) *StubDex {
	return &StubDex{logger: logging.NewComponentLogger(logger, "dex")}
}

// Lookup reports whether candidateNumber is the National-Dex number of a
// species named in productName. Satisfies DexLookup.
func (d *StubDex) Lookup(productName, candidateNumber string) bool {
	d.once.Do(func() {
		d.logger.Debug("using built-in national dex table")
	})
	number := normalize.CardNumber(candidateNumber)
	if number == "" {
		return false
	}
	for _, token := range normalize.Tokens(productName) {
		if dex, ok := stubDexTable[token]; ok && dex == number {
			return true
		}
	}
	return false
}
