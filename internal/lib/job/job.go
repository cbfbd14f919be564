// Package job runs background work on Asynq, a Redis-backed queue.
//
// The API enqueues through JobService.Client; the worker side is started
// in-process by JobService.Start.
package job

import (
	"github.com/deppfellow/taskmanagement/internal/config"
	"github.com/deppfellow/taskmanagement/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger
	mailer Mailer
}

// Mailer sends the e-mails produced by jobs. *email.Client implements it.
type Mailer interface {
	SendWelcomeEmail(to, name string) error
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		logger: logger,
	}
}

// InitHandlers builds the dependencies the task handlers need.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	return mux
}

// Start launches the worker pool and returns; workers run until Stop.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")

	return j.server.Start(j.Mux())
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
