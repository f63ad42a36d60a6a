package session

import (
	"github.com/foxseedlab/assist/internal/config"
	"github.com/foxseedlab/assist/internal/discord"
	"github.com/foxseedlab/assist/internal/repository"
	"github.com/foxseedlab/assist/internal/webhook"
	"github.com/jonboulle/clockwork"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		ledger := do.MustInvoke[repository.Ledger](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewManager(cfg, dc, ledger, wh, clockwork.NewRealClock(), DefaultRetryPolicy), nil
	})
}
