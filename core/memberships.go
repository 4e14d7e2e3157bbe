package core

import (
	"context"
	"net/http"
	"net/url"
)

type membershipsAPI struct {
	rt *runtime
}

func (a *membershipsAPI) GetMembershipList(ctx context.Context, pagination Pagination) (Page[Membership], error) {
	ctx = normalizeContext(ctx)
	return observe(ctx, a.rt, "qonto.memberships.list", nil, func() (Page[Membership], error) {
		query := url.Values{}
		addPagination(query, pagination.normalized(a.rt.cfg.Pagination.ItemsPerPage))
		resp, err := a.rt.send(ctx, apiCall{
			operation: "memberships.list",
			method:    http.MethodGet,
			path:      "memberships",
			query:     query,
		})
		if err != nil {
			return Page[Membership]{}, err
		}
		envelope, err := decodeJSON[apiMembershipListEnvelope](resp.Body, "membership list")
		if err != nil {
			return Page[Membership]{}, err
		}
		return pageFromMeta(convertMemberships(envelope.Memberships), envelope.Meta), nil
	})
}

type labelsAPI struct {
	rt *runtime
}

func (a *labelsAPI) GetLabelList(ctx context.Context, pagination Pagination) (Page[Label], error) {
	ctx = normalizeContext(ctx)
	return observe(ctx, a.rt, "qonto.labels.list", nil, func() (Page[Label], error) {
		query := url.Values{}
		addPagination(query, pagination.normalized(a.rt.cfg.Pagination.ItemsPerPage))
		resp, err := a.rt.send(ctx, apiCall{
			operation: "labels.list",
			method:    http.MethodGet,
			path:      "labels",
			query:     query,
		})
		if err != nil {
			return Page[Label]{}, err
		}
		envelope, err := decodeJSON[apiLabelListEnvelope](resp.Body, "label list")
		if err != nil {
			return Page[Label]{}, err
		}
		return pageFromMeta(convertLabels(envelope.Labels), envelope.Meta), nil
	})
}

var (
	_ Memberships = (*membershipsAPI)(nil)
	_ Labels      = (*labelsAPI)(nil)
)
