package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ Memberships = (*membershipsAPI)(nil)
	_ Labels      = (*labelsAPI)(nil)

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
