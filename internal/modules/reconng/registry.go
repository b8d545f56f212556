// internal/modules/reconng/registry.go
package reconng

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
			Description:  "Recon-ng framework via recon-cli (host and port discovery)",
			RequiresAuth: false,
			TargetTypes:  []domain.TargetType{domain.TargetTypeDomain, domain.TargetTypeIP},
		},
	)
	if err != nil {
		panic(err)
	}
}
