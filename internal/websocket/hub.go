package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis pub/sub channel used to fan events out across instances.
const redisChannelAll = "ws:broadcast:all"

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	redisClient *redis.Client
	redisPubSub *redis.PubSub

	logger *zap.Logger
	mu     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// BroadcastMessage represents a message to broadcast to clients
type BroadcastMessage struct {
	Channel    string // e.g. "schedules", "schedules:{id}", "tasks:{id}"
	Message    *Message
	ScheduleID string
	TaskID     string
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *BroadcastMessage, 256),
		redisClient: redisClient,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the hub
func (h *Hub) Start() error {
	// Subscribe to Redis pub/sub for distributed broadcasting
	if h.redisClient != nil {
		h.redisPubSub = h.redisClient.Subscribe(h.ctx, redisChannelAll)
		go h.handleRedisPubSub()
	}

	go h.run()

	h.logger.Info("WebSocket hub started")
	return nil
}

// Stop stops the hub
func (h *Hub) Stop() error {
	h.cancel()

	if h.redisPubSub != nil {
		h.redisPubSub.Close()
	}

	h.logger.Info("WebSocket hub stopped")
	return nil
}

// run handles the hub's main loop
func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("client registered",
		zap.String("client_id", client.id),
		zap.Int("total_clients", len(h.clients)),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client]; exists {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info("client unregistered",
			zap.String("client_id", client.id),
			zap.Int("total_clients", len(h.clients)),
		)
	}
}

func (h *Hub) broadcastMessage(bm *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	messageData, err := bm.Message.ToJSON()
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}

	sentCount := 0
	for client := range h.clients {
		if !client.IsSubscribed(bm.Channel) {
			continue
		}
		if !client.MatchesFilters(bm.Channel, bm.ScheduleID, bm.TaskID) {
			continue
		}
		h.sendToClient(client, messageData)
		sentCount++
	}

	h.logger.Debug("broadcast message sent",
		zap.String("channel", bm.Channel),
		zap.String("type", string(bm.Message.Type)),
		zap.Int("recipients", sentCount),
	)
}

func (h *Hub) sendToClient(client *Client, messageData []byte) {
	select {
	case client.send <- messageData:
	default:
		h.logger.Warn("client send channel full, closing connection",
			zap.String("client_id", client.id),
		)
		go client.Close()
	}
}

// Broadcast sends a message to all relevant clients (local and via Redis)
func (h *Hub) Broadcast(channel string, message *Message, scheduleID, taskID string) {
	bm := &BroadcastMessage{
		Channel:    channel,
		Message:    message,
		ScheduleID: scheduleID,
		TaskID:     taskID,
	}

	select {
	case h.broadcast <- bm:
	default:
		h.logger.Warn("broadcast channel full, dropping message")
	}

	// Fan out to other instances
	if h.redisClient != nil {
		h.publishToRedis(bm)
	}
}

func (h *Hub) publishToRedis(bm *BroadcastMessage) {
	data, err := json.Marshal(bm)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message for Redis", zap.Error(err))
		return
	}

	if err := h.redisClient.Publish(h.ctx, redisChannelAll, data).Err(); err != nil {
		h.logger.Error("failed to publish to Redis", zap.Error(err))
	}
}

// handleRedisPubSub handles incoming messages from Redis pub/sub
func (h *Hub) handleRedisPubSub() {
	ch := h.redisPubSub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg := <-ch:
			var bm BroadcastMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				h.logger.Error("failed to unmarshal Redis message", zap.Error(err))
				continue
			}

			// Local delivery only; never re-publish to Redis
			select {
			case h.broadcast <- &bm:
			default:
				h.logger.Warn("broadcast channel full, dropping Redis message")
			}
		}
	}
}

// BroadcastScheduleEvent broadcasts a schedule lifecycle event to the
// catch-all channel plus the schedule- and task-specific channels.
func (h *Hub) BroadcastScheduleEvent(msgType MessageType, data *ScheduleEventData) {
	message, err := NewMessage(msgType, data)
	if err != nil {
		h.logger.Error("failed to create schedule event message", zap.Error(err))
		return
	}

	channels := []string{
		"schedules",
		fmt.Sprintf("schedules:%s", data.ScheduleID),
		fmt.Sprintf("tasks:%s", data.TaskID),
	}

	for _, channel := range channels {
		h.Broadcast(channel, message, data.ScheduleID, data.TaskID)
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ParseChannel parses a channel string and extracts resource type and ID
func ParseChannel(channel string) (resourceType, resourceID string) {
	parts := strings.SplitN(channel, ":", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return channel, ""
}
