package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a list-backed queue: LPUSH to enqueue, BRPOP to dequeue.
type RedisQueue struct {
	client      *redis.Client
	key         string
	deadKey     string
	pollTimeout time.Duration
}

// NewRedisQueue stores pending messages under key and exhausted ones under key+":dead".
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{
		client:      client,
		key:         key,
		deadKey:     key + ":dead",
		pollTimeout: 2 * time.Second,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}
		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if errors.Is(err, redis.ErrClosed) {
			return Message{}, ErrQueueClosed
		}
		if err != nil {
			return Message{}, err
		}
		// BRPOP returns [key, value].
		var msg Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			return Message{}, fmt.Errorf("decode notification: %w", err)
		}
		return msg, nil
	}
}

func (q *RedisQueue) DeadLetter(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return q.client.LPush(ctx, q.deadKey, payload).Err()
}
