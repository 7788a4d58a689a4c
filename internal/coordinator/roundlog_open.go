package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog"
	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog/postgres"
	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog/sqlite"
)

// OpenRoundLog picks a backend from dsn: "sqlite:<path>" or a postgres URL.
// An empty dsn returns a nil repository, which disables the audit log.
func OpenRoundLog(ctx context.Context, dsn string) (roundlog.Repository, error) {
	switch {
	case dsn == "":
		return nil, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		repo, err := sqlite.Open(strings.TrimPrefix(dsn, "sqlite:"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		repo, err := postgres.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported round log dsn %q", dsn)
	}
}
