package cli

import (
	"context"
	"fmt"
	"strings"
)

// matchID resolves input against ids: an exact match wins, otherwise a
// unique prefix.
func matchID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

// resolveDAOID accepts a full DAO id or a unique prefix.
func resolveDAOID(ctx context.Context, app *App, input string) (string, error) {
	daos, err := app.DAOs.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(daos))
	for _, d := range daos {
		ids = append(ids, d.ID)
	}
	return matchID("DAO", input, ids)
}

// resolveProposalID accepts a full proposal id or a unique prefix across
// every DAO.
func resolveProposalID(ctx context.Context, app *App, input string) (string, error) {
	if p, err := app.Proposals.GetByID(ctx, input); err == nil {
		return p.ID, nil
	}
	daos, err := app.DAOs.List(ctx)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, d := range daos {
		proposals, err := app.Proposals.ListByDAO(ctx, d.ID)
		if err != nil {
			return "", err
		}
		for _, p := range proposals {
			ids = append(ids, p.ID)
		}
	}
	return matchID("proposal", input, ids)
}
