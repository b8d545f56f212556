// internal/modules/spiderfoot/registry.go
package spiderfoot

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
			Description:  "SpiderFoot automated reconnaissance server (dns, whois, social, leaks)",
			RequiresAuth: false,
			TargetTypes: []domain.TargetType{
				domain.TargetTypeDomain,
				domain.TargetTypeIP,
				domain.TargetTypeEmail,
			},
		},
	)
	if err != nil {
		panic(err)
	}
}
