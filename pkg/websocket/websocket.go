package websocketPkg

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"KTPExtractor/internal/entity"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type ServiceType string

const (
	FieldDetectionService ServiceType = "FIELD_DETECTION"
	EasyOCRService        ServiceType = "EASYOCR"
)

var ErrServiceResponse = errors.New("AI service returned an error")

type IWebsocket interface {
	DetectFields(ctx context.Context, frame []byte) ([]entity.RawDetection, error)
	ReadText(ctx context.Context, frame []byte) ([]string, error)
	IsConnected(serviceType ServiceType) bool
	Reconnect(serviceType ServiceType) error
	CloseConnections()
}

type detectionMessage struct {
	ClassName  string    `json:"class_name"`
	BBox       []float64 `json:"bbox"`
	Confidence float64   `json:"conf"`
}

type detectionResponse struct {
	Detections []detectionMessage `json:"detections"`
	Error      string             `json:"error,omitempty"`
}

type readTextResponse struct {
	Texts []string `json:"texts"`
	Error string   `json:"error,omitempty"`
}

type serviceConn struct {
	conn *websocket.Conn
	// held for a whole write+read exchange so replies are not interleaved
	exchange sync.Mutex
}

type webSocketClient struct {
	log          *logrus.Logger
	conns        map[ServiceType]*serviceConn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewAIWebSocketClient(log *logrus.Logger) IWebsocket {
	client := &webSocketClient{
		log: log,
		conns: map[ServiceType]*serviceConn{
			FieldDetectionService: {},
			EasyOCRService:        {},
		},
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground(FieldDetectionService)
	go client.connectInBackground(EasyOCRService)

	return client
}

func (c *webSocketClient) connectInBackground(serviceType ServiceType) {
	if err := c.Reconnect(serviceType); err != nil {
		c.log.Warnf("Initial connection to %s failed: %v. Will retry on demand.", getServiceName(serviceType), err)
		return
	}
	c.log.Infof("Successfully connected to %s service", getServiceName(serviceType))
}

func (c *webSocketClient) IsConnected(serviceType ServiceType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	sc, ok := c.conns[serviceType]
	return ok && sc.conn != nil
}

func (c *webSocketClient) Reconnect(serviceType ServiceType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sc, ok := c.conns[serviceType]
	if !ok {
		return fmt.Errorf("unknown AI service %q", serviceType)
	}
	if sc.conn != nil {
		sc.conn.Close()
		sc.conn = nil
	}

	url := getWebSocketURL(serviceType)
	c.log.Debugf("Connecting to %s at %s", getServiceName(serviceType), url)

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	sc.conn = conn
	go c.keepAlive(serviceType, conn)

	return nil
}

func (c *webSocketClient) CloseConnections() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sc := range c.conns {
		if sc.conn != nil {
			sc.conn.Close()
			sc.conn = nil
		}
	}
}

func (c *webSocketClient) keepAlive(serviceType ServiceType, conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		sc := c.conns[serviceType]
		if sc.conn != conn {
			c.mu.Unlock()
			return
		}

		if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Warnf("Ping failed for %s, marking connection as dead: %v", getServiceName(serviceType), err)
			sc.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

func (c *webSocketClient) getConnection(serviceType ServiceType) (*serviceConn, *websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sc := c.conns[serviceType]
	if sc.conn == nil {
		return sc, nil, fmt.Errorf("not connected to %s service", getServiceName(serviceType))
	}
	return sc, sc.conn, nil
}

func (c *webSocketClient) dropConnection(serviceType ServiceType, conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sc := c.conns[serviceType]; sc.conn == conn {
		sc.conn = nil
	}
	conn.Close()
}

// exchange sends one base64 text frame and waits for the JSON reply.
func (c *webSocketClient) exchange(ctx context.Context, serviceType ServiceType, frame []byte) ([]byte, error) {
	sc, conn, err := c.getConnection(serviceType)
	if err != nil {
		if err := c.Reconnect(serviceType); err != nil {
			return nil, fmt.Errorf("cannot connect to %s: %w", getServiceName(serviceType), err)
		}
		if sc, conn, err = c.getConnection(serviceType); err != nil {
			return nil, err
		}
	}

	sc.exchange.Lock()
	defer sc.exchange.Unlock()

	writeDeadline := time.Now().Add(c.writeTimeout)
	readDeadline := time.Now().Add(c.readTimeout)
	if dl, ok := ctx.Deadline(); ok {
		if dl.Before(writeDeadline) {
			writeDeadline = dl
		}
		if dl.Before(readDeadline) {
			readDeadline = dl
		}
	}

	payload := base64.StdEncoding.EncodeToString(frame)
	c.log.Debugf("Sending frame of size %d bytes to %s", len(payload), getServiceName(serviceType))

	conn.SetWriteDeadline(writeDeadline)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		c.dropConnection(serviceType, conn)
		return nil, fmt.Errorf("error sending frame to %s: %w", getServiceName(serviceType), err)
	}

	conn.SetReadDeadline(readDeadline)
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.dropConnection(serviceType, conn)
		return nil, fmt.Errorf("error reading %s response: %w", getServiceName(serviceType), err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	return message, nil
}

func (c *webSocketClient) DetectFields(ctx context.Context, frame []byte) ([]entity.RawDetection, error) {
	message, err := c.exchange(ctx, FieldDetectionService, frame)
	if err != nil {
		return nil, err
	}
	return decodeDetections(message)
}

func (c *webSocketClient) ReadText(ctx context.Context, frame []byte) ([]string, error) {
	message, err := c.exchange(ctx, EasyOCRService, frame)
	if err != nil {
		return nil, err
	}

	var result readTextResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling EasyOCR response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrServiceResponse, result.Error)
	}
	return result.Texts, nil
}

// decodeDetections keeps the detector's order. Detections with a malformed
// box are dropped; class labels are validated later by the pipeline.
func decodeDetections(message []byte) ([]entity.RawDetection, error) {
	var result detectionResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling field detection response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrServiceResponse, result.Error)
	}

	detections := make([]entity.RawDetection, 0, len(result.Detections))
	for _, d := range result.Detections {
		if len(d.BBox) != 4 {
			continue
		}
		detections = append(detections, entity.RawDetection{
			Class: entity.FieldClass(d.ClassName),
			Box: entity.BoundingBox{
				X1: d.BBox[0],
				Y1: d.BBox[1],
				X2: d.BBox[2],
				Y2: d.BBox[3],
			},
			Confidence: d.Confidence,
		})
	}
	return detections, nil
}

func getWebSocketURL(serviceType ServiceType) string {
	switch serviceType {
	case FieldDetectionService:
		url := os.Getenv("AI_KTP_FIELD_DETECTION_URL")
		if url == "" {
			url = "ws://localhost:8000/api/v1/ktp/fields/ws"
		}
		return url
	case EasyOCRService:
		url := os.Getenv("AI_EASYOCR_URL")
		if url == "" {
			url = "ws://localhost:8000/api/v1/easyocr/ws"
		}
		return url
	default:
		return ""
	}
}

func getServiceName(serviceType ServiceType) string {
	switch serviceType {
	case FieldDetectionService:
		return "KTP Field Detection"
	case EasyOCRService:
		return "EasyOCR"
	default:
		return "Unknown Service"
	}
}
