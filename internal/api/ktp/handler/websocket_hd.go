package ktpHandler

import (
	"KTPExtractor/internal/api/ktp"
	contextPkg "KTPExtractor/pkg/context"
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
)

func (h *KTPHandler) handleKTPWebSocket(c *websocket.Conn) {
	engineName, _ := c.Locals("ocr_choice").(string)
	requestID, _ := c.Locals("request_id").(string)

	h.log.WithField("request_id", requestID).Info("KTP extraction WebSocket client connected")
	defer h.log.WithField("request_id", requestID).Info("KTP extraction WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("KTP WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		reply := h.extractFrame(requestID, message, engineName)

		if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}
		if err := c.WriteJSON(reply); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}

func (h *KTPHandler) extractFrame(requestID string, frame []byte, engineName string) ktp.Response {
	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), extractTimeout)
	defer cancel()

	result, err := h.ktpService.Extract(ctx, frame, engineName)
	if err != nil {
		h.log.WithField("request_id", requestID).Warnf("Error processing KTP frame: %v", err)
		return ktp.Failure(err.Error())
	}

	return ktp.Success(result.Data)
}
