package workflow_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/mesadigital/restaurante_backend/workflow"
	"github.com/shopspring/decimal"
)

func TestRegisterAndOrderLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "restaurante_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	tenant, err := models.CreateTenant(ctx, &models.NewTenant{
		Name:     "Pizzaria Teste",
		Slug:     "pizzaria-teste",
		Email:    "dona@teste.local",
		Password: "segredo1",
	})
	if err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	ctx = utils.SetTenantIdInContext(ctx, tenant.ID)
	ctx = utils.SetUserNameInContext(ctx, "Teste")

	pizza, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:  "Pizza Margherita",
		Price: "10,50",
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	soda, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:  "Refrigerante",
		Price: "5,00",
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	db := config.GetDB()
	if db == nil {
		t.Fatalf("db is nil after ConnectDatabaseWithRetry")
	}

	// --- open the register ---
	session, err := workflow.OpenCashSession(ctx, tenant.ID, decimal.NewFromInt(100), "Teste")
	if err != nil {
		t.Fatalf("OpenCashSession: %v", err)
	}

	// A second open must be rejected while the first is live.
	if _, err := workflow.OpenCashSession(ctx, tenant.ID, decimal.NewFromInt(50), "Teste"); err == nil {
		t.Fatal("second OpenCashSession succeeded; want conflict")
	} else if !utils.IsConflict(err) {
		t.Fatalf("second OpenCashSession: want conflict, got %v", err)
	}

	// --- staff order through the full kitchen sequence ---
	order, err := workflow.CreateStaffOrder(ctx, &models.NewOrder{
		CustomerName:  "Mesa 4",
		TableNumber:   "4",
		PaymentMethod: models.PaymentMethodCash,
		Items: []models.NewOrderItem{
			{ProductId: pizza.ID, Quantity: 2},
			{ProductId: soda.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateStaffOrder: %v", err)
	}
	if want, _ := decimal.NewFromString("26.00"); !order.TotalPrice.Equal(want) {
		t.Fatalf("order total = %s; want 26.00", order.TotalPrice)
	}

	for _, want := range []models.OrderStatus{
		models.OrderStatusPreparing, models.OrderStatusSent, models.OrderStatusCompleted,
	} {
		order, err = workflow.AdvanceOrderStatus(ctx, order.ID)
		if err != nil {
			t.Fatalf("AdvanceOrderStatus to %s: %v", want, err)
		}
		if order.Status != want {
			t.Fatalf("status = %s; want %s", order.Status, want)
		}
	}
	if order.CompletedAt == nil {
		t.Fatal("completed order has no CompletedAt")
	}

	// Advancing past terminal must conflict.
	if _, err := workflow.AdvanceOrderStatus(ctx, order.ID); err == nil {
		t.Fatal("advance past COMPLETED succeeded; want conflict")
	} else if !utils.IsConflict(err) {
		t.Fatalf("advance past COMPLETED: want conflict, got %v", err)
	}

	// Exactly one sale movement, amount equals the order total.
	var saleCount int64
	if err := db.Model(&models.CashMovement{}).
		Where("tenant_id = ? AND order_id = ? AND type = ?", tenant.ID, order.ID, models.MovementTypeSale).
		Count(&saleCount).Error; err != nil {
		t.Fatalf("count sale movements: %v", err)
	}
	if saleCount != 1 {
		t.Fatalf("sale movements = %d; want 1", saleCount)
	}
	sale, err := models.FindSaleMovementForOrder(ctx, db, tenant.ID, order.ID)
	if err != nil || sale == nil {
		t.Fatalf("FindSaleMovementForOrder: %v, %v", sale, err)
	}
	if !sale.Amount.Equal(order.TotalPrice) {
		t.Fatalf("sale amount = %s; want %s", sale.Amount, order.TotalPrice)
	}

	// Balance: opening 100 + sale 26 = 126.
	movements, err := models.GetSessionMovements(ctx, db, tenant.ID, session.ID)
	if err != nil {
		t.Fatalf("GetSessionMovements: %v", err)
	}
	if got := models.SessionBalance(session.OpeningAmount, movements); !got.Equal(decimal.NewFromInt(126)) {
		t.Fatalf("session balance = %s; want 126", got)
	}

	// --- counter sale: finalize, edit, delete ---
	counter, err := workflow.FinalizeCounterOrder(ctx, &models.NewOrder{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []models.NewOrderItem{{ProductId: pizza.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("FinalizeCounterOrder: %v", err)
	}
	if counter.Status != models.OrderStatusCompleted || counter.CustomerId != nil {
		t.Fatalf("counter order not completed/anonymous: %+v", counter)
	}

	counterSale, err := models.FindSaleMovementForOrder(ctx, db, tenant.ID, counter.ID)
	if err != nil || counterSale == nil {
		t.Fatalf("counter sale movement missing: %v", err)
	}

	// Edit: two pizzas now; the same movement row must carry the new amount.
	edited, err := workflow.EditCounterOrder(ctx, counter.ID, &models.NewOrder{
		Items: []models.NewOrderItem{{ProductId: pizza.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("EditCounterOrder: %v", err)
	}
	if want, _ := decimal.NewFromString("21.00"); !edited.TotalPrice.Equal(want) {
		t.Fatalf("edited total = %s; want 21.00", edited.TotalPrice)
	}
	editedSale, err := models.FindSaleMovementForOrder(ctx, db, tenant.ID, counter.ID)
	if err != nil || editedSale == nil {
		t.Fatalf("edited sale movement missing: %v", err)
	}
	if editedSale.ID != counterSale.ID {
		t.Fatalf("movement replaced (id %d -> %d); want in-place update", counterSale.ID, editedSale.ID)
	}
	if !editedSale.Amount.Equal(edited.TotalPrice) {
		t.Fatalf("edited movement amount = %s; want %s", editedSale.Amount, edited.TotalPrice)
	}

	// Snapshot immunity: raising the catalog price must not touch the order.
	if _, err := models.UpdateProduct(ctx, pizza.ID, &models.NewProduct{
		Name:  "Pizza Margherita",
		Price: "99,00",
	}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	var items []models.OrderItem
	if err := db.Where("order_id = ?", counter.ID).Find(&items).Error; err != nil {
		t.Fatalf("load order items: %v", err)
	}
	for _, item := range items {
		if want, _ := decimal.NewFromString("10.50"); !item.PriceAtOrder.Equal(want) {
			t.Fatalf("snapshot price = %s; want 10.50", item.PriceAtOrder)
		}
	}

	// Delete: order, items and movement must all go.
	if err := workflow.DeleteCounterOrder(ctx, counter.ID); err != nil {
		t.Fatalf("DeleteCounterOrder: %v", err)
	}
	for _, check := range []struct {
		name  string
		model interface{}
		where string
	}{
		{"orders", &models.Order{}, "id = ?"},
		{"order_items", &models.OrderItem{}, "order_id = ?"},
		{"cash_movements", &models.CashMovement{}, "order_id = ?"},
	} {
		var n int64
		if err := db.Model(check.model).Where(check.where, counter.ID).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", check.name, err)
		}
		if n != 0 {
			t.Fatalf("%s rows remain after delete: %d", check.name, n)
		}
	}

	// --- close the register, then complete an order with it closed ---
	closed, err := workflow.CloseCashSession(ctx, tenant.ID, decimal.NewFromInt(147), "fim do dia")
	if err != nil {
		t.Fatalf("CloseCashSession: %v", err)
	}
	if closed.ClosedAt == nil || closed.ExpectedAmount == nil {
		t.Fatalf("closed session missing close fields: %+v", closed)
	}

	lateOrder, err := workflow.CreateStaffOrder(ctx, &models.NewOrder{
		CustomerName:  "Balcão tardio",
		TableNumber:   "2",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []models.NewOrderItem{{ProductId: soda.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateStaffOrder (late): %v", err)
	}
	for i := 0; i < 3; i++ {
		lateOrder, err = workflow.AdvanceOrderStatus(ctx, lateOrder.ID)
		if err != nil {
			t.Fatalf("AdvanceOrderStatus (late): %v", err)
		}
	}
	if lateOrder.Status != models.OrderStatusCompleted {
		t.Fatalf("late order status = %s; want COMPLETED", lateOrder.Status)
	}
	lateSale, err := models.FindSaleMovementForOrder(ctx, db, tenant.ID, lateOrder.ID)
	if err != nil {
		t.Fatalf("FindSaleMovementForOrder (late): %v", err)
	}
	if lateSale != nil {
		t.Fatalf("sale movement written with register closed: %+v", lateSale)
	}

	// Counter sales are rejected outright while the register is closed.
	if _, err := workflow.FinalizeCounterOrder(ctx, &models.NewOrder{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []models.NewOrderItem{{ProductId: soda.ID, Quantity: 1}},
	}); err == nil {
		t.Fatal("FinalizeCounterOrder with closed register succeeded; want conflict")
	} else if !utils.IsConflict(err) {
		t.Fatalf("FinalizeCounterOrder with closed register: want conflict, got %v", err)
	}

	// Closing again with nothing open is a conflict, not a missing record.
	if _, err := workflow.CloseCashSession(ctx, tenant.ID, decimal.NewFromInt(10), ""); err == nil {
		t.Fatal("second CloseCashSession succeeded; want conflict")
	} else if !utils.IsConflict(err) {
		t.Fatalf("second CloseCashSession: want conflict, got %v", err)
	}

	// --- sales channels: menu vs counter listings ---
	deliveryOnly, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:     "Marmita Entrega",
		Price:    "18,00",
		IsBalcao: utils.NewFalse(),
	})
	if err != nil {
		t.Fatalf("CreateProduct (delivery only): %v", err)
	}
	counterOnly, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:       "Café Expresso",
		Price:      "4,00",
		IsDelivery: utils.NewFalse(),
	})
	if err != nil {
		t.Fatalf("CreateProduct (counter only): %v", err)
	}

	menu, err := models.GetActiveProducts(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("GetActiveProducts: %v", err)
	}
	if !containsProduct(menu, deliveryOnly.ID) || containsProduct(menu, counterOnly.ID) {
		t.Fatalf("menu listing wrong: has delivery-only=%v, has counter-only=%v",
			containsProduct(menu, deliveryOnly.ID), containsProduct(menu, counterOnly.ID))
	}

	counterList, err := models.GetCounterProducts(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("GetCounterProducts: %v", err)
	}
	if !containsProduct(counterList, counterOnly.ID) || containsProduct(counterList, deliveryOnly.ID) {
		t.Fatalf("counter listing wrong: has counter-only=%v, has delivery-only=%v",
			containsProduct(counterList, counterOnly.ID), containsProduct(counterList, deliveryOnly.ID))
	}

	found, err := models.SearchBalcaoProducts(ctx, tenant.ID, "Marmita")
	if err != nil {
		t.Fatalf("SearchBalcaoProducts: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("counter search returned a delivery-only product: %+v", found)
	}

	// --- delivery zones: listing and fee by id ---
	centro, err := models.CreateNeighborhood(ctx, &models.NewNeighborhood{
		Name:        "Centro",
		DeliveryFee: "7,50",
	})
	if err != nil {
		t.Fatalf("CreateNeighborhood: %v", err)
	}
	zones, err := models.GetTenantNeighborhoods(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("GetTenantNeighborhoods: %v", err)
	}
	zoneListed := false
	for _, z := range zones {
		if z.ID == centro.ID {
			zoneListed = true
		}
	}
	if !zoneListed {
		t.Fatalf("created zone missing from listing: %+v", zones)
	}

	feeOrder, err := workflow.CreateStaffOrder(ctx, &models.NewOrder{
		CustomerName:   "Entrega Centro",
		OrderType:      models.OrderTypeDelivery,
		PaymentMethod:  models.PaymentMethodPix,
		NeighborhoodId: centro.ID,
		Items:          []models.NewOrderItem{{ProductId: soda.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateStaffOrder (zone fee): %v", err)
	}
	if want, _ := decimal.NewFromString("7.50"); !feeOrder.DeliveryFee.Equal(want) {
		t.Fatalf("delivery fee by zone id = %s; want 7.50", feeOrder.DeliveryFee)
	}
	if want, _ := decimal.NewFromString("12.50"); !feeOrder.TotalPrice.Equal(want) {
		t.Fatalf("order total with zone fee = %s; want 12.50", feeOrder.TotalPrice)
	}
}

func containsProduct(products []*models.Product, id int) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("restaurante-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("restaurante-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=restaurante_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
