package job

import (
	"context"
	"log"
	"time"

	"fitledger/internal/config"
	"fitledger/internal/infrastructure/mq"
	"fitledger/internal/model"
	"fitledger/internal/repository"

	"gorm.io/gorm"
)

// OutboxSender drains the outbox table to Kafka. Events are written in
// the same DB transaction as the ledger mutation they describe, so a
// crash between commit and publish only delays the event, never loses
// or invents one.
type OutboxSender struct {
	db         *gorm.DB
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, cfg *config.Config) *OutboxSender {
	return &OutboxSender{
		db:         db,
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		interval:   100 * time.Millisecond,
		batchSize:  100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	log.Println("[OutboxSender] tarefa de envio de eventos iniciada")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[OutboxSender] sinal de parada recebido, encerrando")
			return
		case <-s.stopCh:
			log.Println("[OutboxSender] tarefa encerrada")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.ListPending(ctx, s.batchSize)
	if err != nil {
		log.Printf("[OutboxSender] falha ao buscar eventos pendentes: %v", err)
		return
	}

	if len(messages) == 0 {
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := mq.SendMessage(msg.Topic, msg.MessageKey, msg.Payload)

	if err == nil {
		if updateErr := s.outboxRepo.MarkSent(ctx, msg.ID); updateErr != nil {
			log.Printf("[OutboxSender] falha ao atualizar status do evento: id=%d, err=%v", msg.ID, updateErr)
		} else {
			log.Printf("[OutboxSender] evento publicado: id=%d, topic=%s, key=%s", msg.ID, msg.Topic, msg.MessageKey)
		}
		return
	}

	log.Printf("[OutboxSender] falha ao publicar evento: id=%d, err=%v", msg.ID, err)

	if err := s.outboxRepo.RecordFailure(ctx, msg.ID, s.cfg.Business.MaxRetryCount); err != nil {
		log.Printf("[OutboxSender] falha ao registrar tentativa do evento: id=%d, err=%v", msg.ID, err)
	}
}
