package middleware

import (
	"context"

	"github.com/Temutjin2k/qglide-admin/pkg/logger"
)

type (
	// TokenReader exposes the stored operator token.
	TokenReader interface {
		Get(ctx context.Context) (string, error)
	}

	Middleware struct {
		session TokenReader
		log     logger.Logger
	}
)

func NewMiddleware(session TokenReader, log logger.Logger) *Middleware {
	return &Middleware{
		session: session,
		log:     log,
	}
}
