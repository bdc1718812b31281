package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
)

func summary() checkout.Summary {
	return checkout.Summary{
		ID:       "order-1",
		Customer: orderform.OrderInfo{Name: "Sari", Phone: "0812", Address: "Jl. Merdeka 1"},
		Items: []cart.Item{
			{Product: catalog.Product{ID: 1, Name: "Robot Mochi", Price: 250000}, Quantity: 1},
			{Product: catalog.Product{ID: 2, Name: "Dasai Mochi", Price: 180000}, Quantity: 2},
		},
		Total:     610000,
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestToOrder(t *testing.T) {
	o := ToOrder(summary())

	assert.Equal(t, "order-1", o.ID)
	assert.Equal(t, deliveryrpc.Customer{Name: "Sari", Phone: "0812", Address: "Jl. Merdeka 1"}, o.Customer)
	assert.Equal(t, []deliveryrpc.Item{
		{ProductID: 1, Name: "Robot Mochi", UnitPrice: 250000, Quantity: 1},
		{ProductID: 2, Name: "Dasai Mochi", UnitPrice: 180000, Quantity: 2},
	}, o.Items)
	assert.Equal(t, int64(610000), o.Total)
}

func TestLogDelivery(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDelivery(slog.New(slog.NewJSONHandler(&buf, nil)))

	d.Deliver(context.Background(), summary())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "order submitted", rec["msg"])
	assert.Equal(t, "order-1", rec["order_id"])
	assert.Equal(t, "Rp 610.000", rec["total_display"])
	assert.Len(t, rec["items"], 2)
	assert.Equal(t, "Sari", rec["customer"].(map[string]any)["name"])
}

type recordingServer struct {
	deliveryrpc.UnimplementedOrderDeliveryServer
	mu        sync.Mutex
	orders    []deliveryrpc.Order
	requestID string
}

func (s *recordingServer) Deliver(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	o, err := deliveryrpc.OrderFromStruct(in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.requestID = interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId)
	s.mu.Unlock()
	return deliveryrpc.Ack{Accepted: true}.ToStruct()
}

func (s *recordingServer) received() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func dialBufconn(t *testing.T, srv deliveryrpc.OrderDeliveryServer) deliveryrpc.OrderDeliveryClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	deliveryrpc.RegisterOrderDeliveryServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return deliveryrpc.NewOrderDeliveryClient(conn)
}

func TestGRPCDelivery_Send(t *testing.T) {
	srv := &recordingServer{}
	d := NewGRPCDelivery(dialBufconn(t, srv))

	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-42")
	ack, err := d.Send(ctx, summary())

	require.NoError(t, err)
	assert.True(t, ack.Accepted)
	require.Len(t, srv.orders, 1)
	assert.Equal(t, ToOrder(summary()), srv.orders[0])
	assert.Equal(t, "req-42", srv.requestID)
}

func TestGRPCDelivery_DeliverOutlivesRequestContext(t *testing.T) {
	srv := &recordingServer{}
	d := NewGRPCDelivery(dialBufconn(t, srv))

	ctx, cancel := context.WithCancel(context.Background())
	d.Deliver(ctx, summary())
	cancel()

	assert.Eventually(t, func() bool { return srv.received() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestGRPCDelivery_SendUnimplemented(t *testing.T) {
	d := NewGRPCDelivery(dialBufconn(t, deliveryrpc.UnimplementedOrderDeliveryServer{}))

	_, err := d.Send(context.Background(), summary())
	assert.Error(t, err)
}

type fakeChannel struct {
	mu       sync.Mutex
	exchange string
	key      string
	msgs     []amqp.Publishing
	err      error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.exchange, c.key = exchange, key
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeChannel) published() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func TestAMQPDelivery_Publish(t *testing.T) {
	ch := &fakeChannel{}
	d := NewAMQPDelivery(ch)

	require.NoError(t, d.Publish(context.Background(), summary()))

	require.Len(t, ch.msgs, 1)
	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, RoutingKey, ch.key)
	msg := ch.msgs[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "order-1", msg.MessageId)

	var o deliveryrpc.Order
	require.NoError(t, json.Unmarshal(msg.Body, &o))
	assert.Equal(t, ToOrder(summary()), o)
}

func TestAMQPDelivery_DeliverIsAsync(t *testing.T) {
	ch := &fakeChannel{}
	NewAMQPDelivery(ch).Deliver(context.Background(), summary())

	assert.Eventually(t, func() bool { return ch.published() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestAMQPDelivery_PublishError(t *testing.T) {
	boom := errors.New("channel closed")
	d := NewAMQPDelivery(&fakeChannel{err: boom})

	assert.ErrorIs(t, d.Publish(context.Background(), summary()), boom)
}

func TestWhatsAppDelivery_Link(t *testing.T) {
	d := NewWhatsAppDelivery("+62 812-0000-111", nil)

	link := d.Link(summary())

	require.True(t, strings.HasPrefix(link, "https://wa.me/628120000111?text="), link)
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Equal(t, Message(summary()), text)
	assert.Contains(t, text, "Robot Mochi x1 = Rp 250.000")
	assert.Contains(t, text, "Dasai Mochi x2 = Rp 360.000")
	assert.True(t, strings.HasSuffix(text, "Total: Rp 610.000"))
}

func TestWhatsAppDelivery_DefaultNumber(t *testing.T) {
	d := NewWhatsAppDelivery("", nil)
	assert.True(t, strings.HasPrefix(d.Link(summary()), "https://wa.me/"+DefaultWhatsAppNumber+"?"))
}

func TestWhatsAppDelivery_LogsLink(t *testing.T) {
	var buf bytes.Buffer
	d := NewWhatsAppDelivery("", slog.New(slog.NewJSONHandler(&buf, nil)))

	d.Deliver(context.Background(), summary())

	assert.Contains(t, buf.String(), `"order_id":"order-1"`)
	assert.Contains(t, buf.String(), "https://wa.me/")
}

func TestFanout(t *testing.T) {
	var got []string
	record := func(name string) checkout.Delivery {
		return checkout.DeliveryFunc(func(_ context.Context, s checkout.Summary) {
			got = append(got, name+":"+s.ID)
		})
	}

	Fanout{record("a"), nil, record("b")}.Deliver(context.Background(), summary())

	assert.Equal(t, []string{"a:order-1", "b:order-1"}, got)
}
