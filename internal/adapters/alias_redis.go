package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"target-resolver/internal/ports"
)

const DefaultRedisAliasKey = "target-resolver:aliases"

// RedisAliasAdapter serves aliases from a Redis hash, one field per alias
// name. Values use the same format as the alias config file.
type RedisAliasAdapter struct {
	client redis.Cmdable
	key    string
}

func NewRedisAliasAdapter(client redis.Cmdable, key string) *RedisAliasAdapter {
	if key == "" {
		key = DefaultRedisAliasKey
	}
	return &RedisAliasAdapter{client: client, key: key}
}

func (a *RedisAliasAdapter) Lookup(ctx context.Context, pattern string) ([]string, error) {
	name, flavor := splitAliasFlavor(pattern)
	if !isAliasName(name) {
		return nil, nil
	}
	targets, err := expandAlias(ctx, name, a.fetch)
	if err != nil {
		return nil, err
	}
	return appendAliasFlavor(targets, flavor), nil
}

// Publish writes the given table into the hash, replacing fields with the
// same name. Values are validated the same way the config table does.
func (a *RedisAliasAdapter) Publish(ctx context.Context, aliases map[string]string) error {
	table, err := NewAliasConfigAdapter(aliases)
	if err != nil {
		return err
	}
	raw := table.Raw()
	if len(raw) == 0 {
		return nil
	}
	values := make([]any, 0, len(raw)*2)
	for _, name := range table.Names() {
		values = append(values, name, raw[name])
	}
	if err := a.client.HSet(ctx, a.key, values...).Err(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to publish aliases to %s", a.key)).
			WithCause(err)
	}
	log.Debug().Str("key", a.key).Int("aliases", len(raw)).Msg("aliases published")
	return nil
}

func (a *RedisAliasAdapter) fetch(ctx context.Context, name string) (string, bool, error) {
	value, err := a.client.HGet(ctx, a.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, fmt.Errorf("get alias %s from %s: %w", name, a.key, err)
	}
	return value, true, nil
}

var _ ports.AliasTablePort = (*RedisAliasAdapter)(nil)
