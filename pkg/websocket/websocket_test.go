package websocketPkg

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"KTPExtractor/internal/entity"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDetections(t *testing.T) {
	msg := []byte(`{"detections":[
		{"class_name":"nik","bbox":[1,2,3,4],"conf":0.91},
		{"class_name":"nama","bbox":[1,2],"conf":0.5},
		{"class_name":"jk","bbox":[5,6,7,8],"conf":0.7}
	]}`)

	got, err := decodeDetections(msg)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.RawDetection{
		Class:      entity.FieldNIK,
		Box:        entity.BoundingBox{X1: 1, Y1: 2, X2: 3, Y2: 4},
		Confidence: 0.91,
	}, got[0])
	assert.Equal(t, entity.FieldJK, got[1].Class)
}

func TestDecodeDetections_ServiceError(t *testing.T) {
	_, err := decodeDetections([]byte(`{"error":"model not loaded"}`))
	assert.ErrorIs(t, err, ErrServiceResponse)

	_, err = decodeDetections([]byte(`not json`))
	assert.Error(t, err)
}

func TestReadText_AgainstServer(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			raw, _ := base64.StdEncoding.DecodeString(string(msg))
			reply, _ := json.Marshal(readTextResponse{Texts: []string{"echo", string(raw)}})
			if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	t.Setenv("AI_EASYOCR_URL", "ws"+strings.TrimPrefix(srv.URL, "http"))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := &webSocketClient{
		log: logger,
		conns: map[ServiceType]*serviceConn{
			FieldDetectionService: {},
			EasyOCRService:        {},
		},
		pingInterval: time.Minute,
		readTimeout:  5 * time.Second,
		writeTimeout: 5 * time.Second,
	}
	defer client.CloseConnections()

	texts, err := client.ReadText(context.Background(), []byte("crop"))
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "crop"}, texts)
	assert.True(t, client.IsConnected(EasyOCRService))
	assert.False(t, client.IsConnected(FieldDetectionService))
}
