package identity

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/trezcool/classdrop/core/coursework"
)

const (
	anonymousPrefix = "anonymous-user-"
	anonymousRange  = 1000
)

// AnonymousProvider hands out placeholder student ids with a random numeric suffix.
// There is no authentication: the submitted name is not looked at.
type AnonymousProvider struct {
	intn func(n int) int
}

var _ coursework.IdentityProvider = (*AnonymousProvider)(nil) // interface compliance check

func NewAnonymousProvider() *AnonymousProvider {
	return &AnonymousProvider{intn: rand.Intn}
}

func (p *AnonymousProvider) StudentID(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return anonymousPrefix + strconv.Itoa(p.intn(anonymousRange)), nil
}
