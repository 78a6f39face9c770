package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"KTPExtractor/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("cache miss")

type CachedResult struct {
	Record      entity.NormalizedRecord `json:"record"`
	SkewAngle   float64                 `json:"skew_angle"`
	TimeElapsed float64                 `json:"time_elapsed"`
}

type IRedis interface {
	GetResult(ctx context.Context, engine string, digest string) (CachedResult, error)
	SetResult(ctx context.Context, engine string, digest string, result CachedResult, expiration time.Duration) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func NewWithClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func resultKey(engine, digest string) string {
	return fmt.Sprintf("ktp:result:%s:%s", engine, digest)
}

func (r *redisClient) GetResult(ctx context.Context, engine string, digest string) (CachedResult, error) {
	key := resultKey(engine, digest)
	logrus.Debug(fmt.Sprintf("Getting cached result for key %s", key))

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedResult{}, ErrCacheMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting cached result for key %s: %v", key, err))
		return CachedResult{}, err
	}

	var result CachedResult
	if err := jsoniter.Unmarshal(val, &result); err != nil {
		logrus.Warn(fmt.Sprintf("Corrupt cached result for key %s: %v", key, err))
		return CachedResult{}, ErrCacheMiss
	}
	return result, nil
}

func (r *redisClient) SetResult(ctx context.Context, engine string, digest string, result CachedResult, expiration time.Duration) error {
	key := resultKey(engine, digest)

	val, err := jsoniter.Marshal(result)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, val, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching result for key %s: %v", key, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Cached result for key %s with expiration %v", key, expiration))
	return nil
}
