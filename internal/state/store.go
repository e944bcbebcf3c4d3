package state

import (
	"sync"

	"github.com/DRSN-tech/go-storefront/pkg/logger"
)

// Listener получает предыдущее и новое состояние после каждого dispatch.
// Если prev == next, действие ничего не изменило. Слушатель не должен вызывать Dispatch.
type Listener func(prev, next *State, action Action)

type subscription struct {
	id       uint64
	listener Listener
}

// Store — единственный владелец живого состояния приложения. Создаётся один раз при старте
// и передаётся явно всем, кому нужен доступ к состоянию.
type Store struct {
	dispatchMu sync.Mutex // упорядочивает dispatch вместе с оповещением слушателей
	mu         sync.RWMutex
	state      *State
	subs       []subscription
	nextID     uint64
	strict     bool
	logger     logger.Logger
}

type Option func(*Store)

// WithStrict включает режим разработки: неизвестное действие вызывает panic.
func WithStrict(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// WithInitialState подменяет начальное состояние.
func WithInitialState(st *State) Option {
	return func(s *Store) {
		s.state = st
	}
}

func NewStore(logger logger.Logger, opts ...Option) *Store {
	s := &Store{
		state:  NewState(),
		logger: logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State возвращает текущий снимок. Снимок полностью сформирован и не меняется.
func (s *Store) State() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch синхронно применяет действие и оповещает слушателей до возврата.
// Действия применяются строго в порядке вызова. Неизвестное действие в strict-режиме
// вызывает panic, иначе логируется и возвращается как ошибка без изменения состояния.
func (s *Store) Dispatch(action Action) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next, err := Reduce(prev, action)
	if err != nil {
		s.mu.Unlock()
		if s.strict {
			panic(err)
		}
		s.logger.Warnf("dispatch rejected: %v", err)
		return err
	}
	s.state = next
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.listener(prev, next, action)
	}

	return nil
}

// Subscribe регистрирует слушателя и возвращает функцию отписки.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, listener: listener})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
