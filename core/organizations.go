package core

import (
	"context"
	"net/http"
)

type organizationsAPI struct {
	rt *runtime
}

func (a *organizationsAPI) GetOrganization(ctx context.Context) (Organization, error) {
	ctx = normalizeContext(ctx)
	return observe(ctx, a.rt, "qonto.organizations.get", nil, func() (Organization, error) {
		resp, err := a.rt.send(ctx, apiCall{
			operation: "organizations.get",
			method:    http.MethodGet,
			path:      "organizations/0",
		})
		if err != nil {
			return Organization{}, err
		}
		envelope, err := decodeJSON[apiOrganizationEnvelope](resp.Body, "organization")
		if err != nil {
			return Organization{}, err
		}
		if envelope.Organization == nil {
			return Organization{}, conversionError("organization", "missing")
		}
		return convertOrganization(*envelope.Organization), nil
	})
}

var _ Organizations = (*organizationsAPI)(nil)
