package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/coffeeshop-server/config"
	"github.com/yeremiapane/coffeeshop-server/database"
	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/router"
	"github.com/yeremiapane/coffeeshop-server/server"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

const wireHead = "HTTP/1.1 200 OK\r\nAccess-Control-Allow-Origin: *\r\nContent-Type: application/json\r\n\r\n"

func TestMain(m *testing.M) {
	utils.InitLogger("error", "text")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// startShop runs the full stack on a loopback port backed by in-memory sqlite.
func startShop(t *testing.T, opts ...func(*config.ServerConfig)) (string, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.ServerConfig{MaxRequestBytes: 1 << 20, ReadTimeout: 2 * time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}
	srv := server.New(cfg, router.SetupRouter(db, router.Options{AtomicOrderWrites: true}))
	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		<-done
		sqlDB.Close()
	})
	return l.Addr().String(), db
}

func send(t *testing.T, addr, method, path string, body string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	raw := fmt.Sprintf("%s %s HTTP/1.1\r\nHost: shop\r\nContent-Length: %d\r\n\r\n%s", method, path, len(body), body)
	_, err = io.WriteString(conn, raw)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(resp)
}

func sendJSON(t *testing.T, addr, method, path, body string) map[string]interface{} {
	t.Helper()
	resp := send(t, addr, method, path, body)
	require.True(t, strings.HasPrefix(resp, wireHead), "unexpected response %q", resp)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(resp, wireHead)), &out))
	return out
}

func TestOrderFlowOverTCP(t *testing.T) {
	addr, db := startShop(t)

	resp := sendJSON(t, addr, "POST", "/api/products/add", `{"name":"Latte","price":3.5,"stock":20}`)
	require.Equal(t, "success", resp["status"], resp)
	resp = sendJSON(t, addr, "POST", "/api/products/add", `{"name":"Beans","price":10,"stock":5}`)
	require.Equal(t, "success", resp["status"], resp)

	resp = sendJSON(t, addr, "POST", "/api/orders/create",
		`{"customer_id":1,"items":[{"product_id":1,"quantity":2,"unit_price":3.5},{"product_id":2,"quantity":1,"unit_price":10}]}`)
	require.Equal(t, "success", resp["status"], resp)
	orderID := uint(resp["order_id"].(float64))

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, "17", order.Total.String())
	assert.Equal(t, models.OrderStatusPending, order.Status)

	resp = sendJSON(t, addr, "POST", "/api/orders/process", fmt.Sprintf(`{"order_id":%d,"status":"Completed"}`, orderID))
	assert.Equal(t, map[string]interface{}{"status": "success"}, resp)

	resp = sendJSON(t, addr, "GET", "/api/products/get", "")
	products := resp["products"].([]interface{})
	require.Len(t, products, 2)
	assert.Equal(t, float64(18), products[0].(map[string]interface{})["stock"])
	assert.Equal(t, float64(4), products[1].(map[string]interface{})["stock"])

	resp = sendJSON(t, addr, "POST", "/api/orders/process", fmt.Sprintf(`{"order_id":%d,"status":"Cancelled"}`, orderID))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Cannot process an order that is already completed or cancelled", resp["message"])

	resp = sendJSON(t, addr, "GET", "/api/revenue/report", "")
	report := resp["revenue_report"].([]interface{})
	require.Len(t, report, 1)
	assert.Equal(t, 17.0, report[0].(map[string]interface{})["total"])
	assert.Equal(t, time.Now().Format("2006-01-02"), report[0].(map[string]interface{})["date"])
}

func TestDroppedRequestsOverTCP(t *testing.T) {
	addr, _ := startShop(t)

	assert.Empty(t, send(t, addr, "GET", "/api/nowhere", ""))
	assert.Empty(t, send(t, addr, "GET", "/api/products/get?page=2", ""))

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.WriteString(conn, "BROKEN\r\n\r\n")
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestNonJSONBodyCoercesToZeroValues(t *testing.T) {
	addr, db := startShop(t)

	resp := sendJSON(t, addr, "POST", "/api/customers/add", "name=Ann")
	assert.Equal(t, "success", resp["status"], resp)

	var customer models.Customer
	require.NoError(t, db.First(&customer).Error)
	assert.Equal(t, "", customer.Name)
}

func TestOversizedRequestWritesNothing(t *testing.T) {
	addr, db := startShop(t, func(cfg *config.ServerConfig) { cfg.MaxRequestBytes = 256 })

	body := fmt.Sprintf(`{"name":"Latte","price":3.5,"description":%q}`, strings.Repeat("x", 20<<10))
	raw := fmt.Sprintf("POST /api/products/add HTTP/1.1\r\nContent-Length: %d\r\n\r\n%s", len(body), body)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	go io.WriteString(conn, raw)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	// the server may reset the connection with unread bytes pending
	resp, _ := io.ReadAll(conn)
	assert.Empty(t, resp)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)

	// a request within the limit still goes through
	resp2 := sendJSON(t, addr, "POST", "/api/products/add", `{"name":"Latte","price":3.5}`)
	assert.Equal(t, "success", resp2["status"])
}
