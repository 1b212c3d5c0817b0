package deps

import (
	"github.com/and161185/ordertrack/internal/auth"
	"github.com/and161185/ordertrack/internal/config"
	"go.uber.org/zap"
)

type Deps struct {
	Logger       *zap.SugaredLogger
	TokenManager *auth.TokenManager
}

func NewDependencies(cfg *config.Config) *Deps {
	return &Deps{
		Logger:       cfg.Logger,
		TokenManager: auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL),
	}
}
