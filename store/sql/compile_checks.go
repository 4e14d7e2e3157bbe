package sqlstore

import qontocommand "github.com/goliatone/go-qonto/command"

var _ qontocommand.TokenSink = (*Sink)(nil)
