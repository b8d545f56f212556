// internal/adapters/output/table.go
package output

import (
	"fmt"
	"sort"
	"time"

	"github.com/pterm/pterm"

	"osintx/internal/core/domain"
)

// timeRounding redondeo de la duración mostrada en cabecera.
const timeRounding = time.Millisecond

// RenderTable imprime el resultado de recolección como tablas en
// terminal: cabecera del target, entidades descubiertas y el estado
// terminal de cada módulo.
func RenderTable(result *domain.CollectionResult) error {
	pterm.DefaultSection.Printf("Collection results for %s", result.Target.Value)

	pterm.Info.Printfln("Type: %s | Entities: %d | Succeeded: %d | Failed: %d | Duration: %s",
		result.Target.Type,
		len(result.Entities),
		result.Metadata.ModulesSucceeded,
		result.Metadata.ModulesFailed,
		result.Metadata.Duration.Round(timeRounding),
	)

	if len(result.Entities) > 0 {
		rows := pterm.TableData{{"TYPE", "VALUE", "SOURCE", "CONFIDENCE"}}
		for _, e := range result.Entities {
			rows = append(rows, []string{
				string(e.Type),
				e.Value,
				e.Source,
				fmt.Sprintf("%.2f (%s)", e.Confidence, domain.ConfidenceLabel(e.Confidence)),
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return fmt.Errorf("failed to render entity table: %w", err)
		}
	} else {
		pterm.Warning.Println("No entities discovered.")
	}

	renderModuleOutcomes(result)
	renderStats(result)

	return nil
}

// renderModuleOutcomes lista el estado terminal de cada módulo en el
// orden de despacho.
func renderModuleOutcomes(result *domain.CollectionResult) {
	for _, name := range result.Target.Modules {
		outcome, ok := result.Outcome(name)
		if !ok {
			continue
		}
		if outcome.IsSuccess() {
			pterm.Success.Printfln("%s: ok", name)
		} else {
			pterm.Error.Printfln("%s: %s", name, outcome.Error)
		}
	}
}

// renderStats imprime el conteo de entidades por tipo.
func renderStats(result *domain.CollectionResult) {
	stats := result.Stats()
	if len(stats) == 0 {
		return
	}

	types := make([]string, 0, len(stats))
	for entityType := range stats {
		types = append(types, entityType)
	}
	sort.Strings(types)

	items := make([]pterm.BulletListItem, 0, len(types))
	for _, entityType := range types {
		items = append(items, pterm.BulletListItem{
			Level: 0,
			Text:  fmt.Sprintf("%s: %d", entityType, stats[entityType]),
		})
	}
	pterm.DefaultBulletList.WithItems(items).Render()
}
