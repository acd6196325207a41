package auth

import (
	"context"

	"lending/core"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
)

// New new auth gate, admins may call privileged operations
func New(admins []string) core.AuthGate {
	return &gate{admins: admins}
}

type gate struct {
	admins []string
}

func (g *gate) RequireCaller(ctx context.Context, identity string) error {
	caller := core.CallerFrom(ctx)
	if caller == "" || caller != identity {
		logger.FromContext(ctx).WithField("caller", caller).Debugln("auth: caller is not", identity)
		return core.ErrUnauthorized
	}

	return nil
}

func (g *gate) RequireAdmin(ctx context.Context) error {
	caller := core.CallerFrom(ctx)
	if caller == "" || !govalidator.IsIn(caller, g.admins...) {
		logger.FromContext(ctx).WithField("caller", caller).Debugln("auth: caller is not admin")
		return core.ErrUnauthorized
	}

	return nil
}
