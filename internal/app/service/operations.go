package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider/anilist"
	"anime-aggregator/internal/infra/provider/graphql"
	"anime-aggregator/internal/metrics"
)

// GraphQLExecutor sends one GraphQL document and decodes its data into out.
type GraphQLExecutor interface {
	Execute(ctx context.Context, req graphql.Request, out any) error
}

// Operation binds a GraphQL document to its name and error policy.
type Operation struct {
	Name     string
	Document string
	Policy   domain.ErrorPolicy
}

var (
	opGetUserAnimeList  = Operation{anilist.OpGetUserAnimeList, anilist.GetUserAnimeListQuery, domain.PolicyPropagate}
	opGetFavorites      = Operation{anilist.OpGetFavorites, anilist.GetFavoritesQuery, domain.PolicyPropagate}
	opIsAnimeFavorite   = Operation{anilist.OpIsAnimeFavorite, anilist.IsAnimeFavoriteQuery, domain.PolicyPropagate}
	opToggleFavorite    = Operation{anilist.OpToggleFavorite, anilist.ToggleFavoriteMutation, domain.PolicyPropagate}
	opGetAnimeStatus    = Operation{anilist.OpGetAnimeStatus, anilist.GetAnimeStatusQuery, domain.PolicyPropagate}
	opSaveProgress      = Operation{anilist.OpSaveProgress, anilist.SaveProgressMutation, domain.PolicyLogAndSwallow}
	opUpdateAnimeStatus = Operation{anilist.OpUpdateAnimeStatus, anilist.UpdateAnimeStatusMutation, domain.PolicyLogAndSwallow}
	opDeleteAnimeEntry  = Operation{anilist.OpDeleteAnimeEntry, anilist.DeleteAnimeEntryMutation, domain.PolicyLogAndSwallow}
)

// Operations lists every authenticated operation with its policy.
var Operations = []Operation{
	opGetUserAnimeList,
	opGetFavorites,
	opIsAnimeFavorite,
	opToggleFavorite,
	opGetAnimeStatus,
	opSaveProgress,
	opUpdateAnimeStatus,
	opDeleteAnimeEntry,
}

// execute sends op with the caller's token. The error is returned raw;
// callers pass it through settle.
func (s *LibraryService) execute(ctx context.Context, auth domain.AuthContext, op Operation, vars map[string]any, out any) error {
	return s.executor.Execute(ctx, graphql.Request{
		OperationName: op.Name,
		Query:         op.Document,
		Variables:     vars,
		Token:         auth.AccessToken,
	}, out)
}

// settle applies policy to the outcome of an operation.
func (s *LibraryService) settle(policy Operation, err error) error {
	if err == nil {
		metrics.GraphQLOperations.WithLabelValues(policy.Name, "success").Inc()
		return nil
	}

	if policy.Policy == domain.PolicyLogAndSwallow {
		metrics.GraphQLOperations.WithLabelValues(policy.Name, "swallowed").Inc()
		s.logger.Warn("operation failed, continuing",
			zap.String("operation", policy.Name),
			zap.Error(err),
		)
		return nil
	}

	metrics.GraphQLOperations.WithLabelValues(policy.Name, "propagated").Inc()
	s.logger.Error("operation failed",
		zap.String("operation", policy.Name),
		zap.Error(err),
	)

	return domain.NewServiceError(policy.Name, err)
}

func isNotFound(err error) bool {
	var gqlErr *graphql.Error
	return errors.As(err, &gqlErr) && gqlErr.NotFound()
}
