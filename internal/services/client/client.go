// Package services содержит бизнес-логику для управления клиентами и их устройствами.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	CreateClient(ctx context.Context, client models.Client) (int, error)
	ReadClient(ctx context.Context, id int) (*models.Client, error)
	UpdateClient(ctx context.Context, client models.Client, id int) (int, error)
	RemoveClient(ctx context.Context, id int) (int, error)
	ListClients(ctx context.Context, limit, offset int) ([]*models.Client, error)
	CreateDevice(ctx context.Context, device models.Device) (int, error)
	ReadDevice(ctx context.Context, id int) (*models.Device, error)
	ListDevicesByClient(ctx context.Context, clientID int) ([]*models.Device, error)
	CreateDeviceType(ctx context.Context, dt models.DeviceType) (int, error)
	CreateDeviceModel(ctx context.Context, dm models.DeviceModel) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ClientService реализует бизнес-логику работы с клиентами, включая кеширование.
type ClientService struct {
	repo  ClientRepository
	cache Cache
	log   *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, cache Cache, log *slog.Logger) *ClientService {
	return &ClientService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает нового клиента с нулевым балансом и возвращает его ID.
func (s *ClientService) Create(ctx context.Context, req models.DummyClient) (int, error) {
	client := models.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Mobile:    req.Mobile,
		Email:     req.Email,
		Comment:   req.Comment,
		Balance:   decimal.Zero,
	}

	id, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new client", slog.Int("id", id))

	client.ID = id
	cacheKey := fmt.Sprintf("client:%d", id)
	if err := s.cache.Set(cacheKey, client, time.Hour); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает клиента по ID, используя кеш или репозиторий.
func (s *ClientService) Read(ctx context.Context, id int) (*models.Client, error) {
	var result *models.Client
	cacheKey := fmt.Sprintf("client:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет данные клиента, сохраняя его текущий баланс, и обновляет кеш.
func (s *ClientService) Update(ctx context.Context, req models.DummyClient, id int) (int, error) {
	current, err := s.repo.ReadClient(ctx, id)
	if err != nil {
		return 0, err
	}

	client := models.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Mobile:    req.Mobile,
		Email:     req.Email,
		Comment:   req.Comment,
		Balance:   current.Balance,
	}
	res, err := s.repo.UpdateClient(ctx, client, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated client in storage", slog.Int("id", id))

	client.ID = id
	cacheKey := fmt.Sprintf("client:%d", id)
	if err := s.cache.Set(cacheKey, client, time.Hour); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет клиента по ID и инвалидирует кеш.
func (s *ClientService) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("client:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveClient(ctx, id)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// List возвращает список клиентов, упорядоченный по фамилии, с пагинацией.
func (s *ClientService) List(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, limit, offset)
}

// AddDevice регистрирует устройство клиента и возвращает его ID.
func (s *ClientService) AddDevice(ctx context.Context, req models.DummyDevice) (int, error) {
	device := models.Device{
		ClientID:     req.ClientID,
		ModelID:      req.ModelID,
		TypeID:       req.TypeID,
		SerialNumber: req.SerialNumber,
		Description:  req.Description,
		Comment:      req.Comment,
	}

	id, err := s.repo.CreateDevice(ctx, device)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new device", slog.Int("id", id), slog.Int("client_id", req.ClientID))
	return id, nil
}

// ReadDevice возвращает устройство по ID.
func (s *ClientService) ReadDevice(ctx context.Context, id int) (*models.Device, error) {
	return s.repo.ReadDevice(ctx, id)
}

// ListDevices возвращает устройства клиента.
func (s *ClientService) ListDevices(ctx context.Context, clientID int) ([]*models.Device, error) {
	return s.repo.ListDevicesByClient(ctx, clientID)
}

// AddDeviceType добавляет тип устройства в справочник и возвращает его ID.
func (s *ClientService) AddDeviceType(ctx context.Context, req models.DummyDeviceType) (int, error) {
	id, err := s.repo.CreateDeviceType(ctx, models.DeviceType{Type: req.Type})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new device type", slog.Int("id", id))
	return id, nil
}

// AddDeviceModel добавляет модель устройства в справочник и возвращает её ID.
func (s *ClientService) AddDeviceModel(ctx context.Context, req models.DummyDeviceModel) (int, error) {
	id, err := s.repo.CreateDeviceModel(ctx, models.DeviceModel{Name: req.Name})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new device model", slog.Int("id", id))
	return id, nil
}
