package asynqserver

import (
	"github.com/agro-export/backend/internal/cache"
	"github.com/agro-export/backend/internal/config"
	"github.com/agro-export/backend/internal/queue/processor"
	"github.com/agro-export/backend/internal/queue/task"
	"github.com/agro-export/backend/internal/worker"

	"github.com/hibiken/asynq"
)

func New(cfg *config.Config, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg.Cache),
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses, Password: cfg.RedisCluster.Password}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address, Password: cfg.Redis.Password}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.PasswordChangedTaskName, processor.NewPasswordChangedProcessor(workers))
	queues := map[string]int{
		task.PasswordChangedQueueName: 1,
	}
	return mux, queues
}
