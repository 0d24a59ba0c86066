package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"target-resolver/internal/adapters"
	"target-resolver/internal/core"
	"target-resolver/internal/ports"
)

// Service wires adapters into a fresh core.PatternEvaluator per request.
// Output, Universe and RedisClient are optional overrides; when nil the
// defaults for the request are built.
type Service struct {
	Output      ports.OutputPort
	Universe    func(req ResolveRequest) ports.UniverseResolverPort
	RedisClient func(addr string) redis.UniversalClient
	Registry    *prometheus.Registry
	Metrics     *core.EvaluatorMetrics
}

func NewService(output ports.OutputPort) Service {
	registry := prometheus.NewRegistry()
	metrics := core.NewEvaluatorMetrics()
	metrics.MustRegister(registry)
	return Service{
		Output:   output,
		Registry: registry,
		Metrics:  metrics,
	}
}

func (s Service) universe(req ResolveRequest) ports.UniverseResolverPort {
	if s.Universe != nil {
		return s.Universe(req)
	}
	return adapters.NewBuildFileUniverse(req.ProjectRoot, req.BuildFileName, req.Workers)
}

// aliasTable builds the alias chain for source. The returned closer releases
// any Redis connection and is never nil.
func (s Service) aliasTable(source AliasSource) (ports.AliasTablePort, func(), error) {
	var chain adapters.AliasChain
	closer := func() {}
	if len(source.Inline) > 0 {
		inline, err := adapters.NewAliasConfigAdapter(source.Inline)
		if err != nil {
			return nil, closer, err
		}
		chain = append(chain, inline)
	}
	if path := strings.TrimSpace(source.File); path != "" {
		file, err := adapters.LoadAliasConfigFile(path)
		if err != nil {
			return nil, closer, err
		}
		chain = append(chain, file)
	}
	if addr := strings.TrimSpace(source.RedisAddr); addr != "" {
		client := s.redisClient(addr)
		closer = func() { _ = client.Close() }
		chain = append(chain, adapters.NewRedisAliasAdapter(client, source.RedisKey))
	}
	return chain, closer, nil
}

func (s Service) redisClient(addr string) redis.UniversalClient {
	if s.RedisClient != nil {
		return s.RedisClient(addr)
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

// PublishAliases pushes an alias file into the Redis hash used by resolve.
func (s Service) PublishAliases(ctx context.Context, source AliasSource) (int, error) {
	if strings.TrimSpace(source.RedisAddr) == "" {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("redis address is required")
	}
	table := map[string]string{}
	for name, value := range source.Inline {
		table[name] = value
	}
	if path := strings.TrimSpace(source.File); path != "" {
		file, err := adapters.LoadAliasConfigFile(path)
		if err != nil {
			return 0, err
		}
		for name, value := range file.Raw() {
			table[name] = value
		}
	}
	if len(table) == 0 {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no aliases to publish")
	}
	client := s.redisClient(source.RedisAddr)
	defer func() { _ = client.Close() }()
	if err := adapters.NewRedisAliasAdapter(client, source.RedisKey).Publish(ctx, table); err != nil {
		return 0, err
	}
	return len(table), nil
}
