// internal/modules/harvester/registry.go
package harvester

import (
	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/logx"
	"osintx/internal/platform/registry"
)

func init() {
	err := registry.Global().Register(
		moduleName,
		func(cfg ports.ModuleConfig, logger logx.Logger) (ports.Module, error) {
			return New(cfg, logger)
		},
		ports.ModuleMetadata{
			Name:         moduleName,
			Description:  "theHarvester passive email and host discovery",
			RequiresAuth: false,
			TargetTypes:  []domain.TargetType{domain.TargetTypeDomain, domain.TargetTypeEmail},
		},
	)
	if err != nil {
		panic(err)
	}
}
