// internal/modules/shodan/registry.go
package shodan

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
			Description:  "Shodan internet exposure database (hosts, ports, banners)",
			RequiresAuth: true,
			TargetTypes:  []domain.TargetType{domain.TargetTypeIP, domain.TargetTypeDomain},
		},
	)
	if err != nil {
		panic(err)
	}
}
