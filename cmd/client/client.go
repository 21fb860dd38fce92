// Command client is a small CLI that dials the server, sends a single
// place/cancel request, and prints whatever reports come back.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"prorata/internal/ingress"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the exchange server")
	owner := flag.String("owner", "", "Trader name (compulsory)")
	action := flag.String("action", "place", "Action to perform: ['place', 'cancel']")

	symbol := flag.String("symbol", "AAPL", "Symbol (max 4 chars)")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	price := flag.Int("price", 100, "Limit price")
	qtyStr := flag.String("qty", "10", "Quantity or comma-separated list (e.g. 10,20,50)")

	orderID := flag.Uint64("id", 0, "Order id to cancel")

	flag.Parse()

	if *owner == "" {
		fmt.Println("Error: -owner is compulsory.")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("Failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s as '%s'\n", *serverAddr, *owner)

	go readReports(conn)

	isBuy := strings.ToLower(*sideStr) != "sell"

	switch strings.ToLower(*action) {
	case "place":
		for _, q := range parseQuantities(*qtyStr) {
			req := ingress.NewOrderRequest{
				RequestToken: uuid.New(),
				Symbol:       *symbol,
				IsBuy:        isBuy,
				Size:         int32(q),
				Price:        int32(*price),
				Trader:       *owner,
			}
			if _, err := conn.Write(ingress.EncodeNewOrder(req)); err != nil {
				log.Printf("Failed to place order (Qty: %d): %v", q, err)
			} else {
				fmt.Printf("-> Sent %s Order: %s %d @ %d\n", strings.ToUpper(*sideStr), *symbol, q, *price)
			}
			time.Sleep(5 * time.Millisecond)
		}

	case "cancel":
		if *orderID == 0 {
			log.Fatal("Error: -id is required for cancellation")
		}
		req := ingress.CancelOrderRequest{Symbol: *symbol, OrderID: *orderID}
		if _, err := conn.Write(ingress.EncodeCancelOrder(req)); err != nil {
			log.Printf("Failed to send cancel request: %v", err)
		} else {
			fmt.Printf("-> Sent Cancel Request for id: %d\n", *orderID)
		}

	default:
		log.Fatalf("Unknown action: %s", *action)
	}

	fmt.Println("\nListening for reports... (Press Ctrl+C to exit)")
	select {}
}

// parseQuantities splits a comma-separated string into a slice of uint64.
func parseQuantities(input string) []uint64 {
	parts := strings.Split(input, ",")
	var result []uint64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if val, err := strconv.ParseUint(p, 10, 64); err == nil {
			result = append(result, val)
		} else {
			log.Printf("Warning: Invalid quantity '%s', skipping.", p)
		}
	}
	return result
}

// readReports prints the server's newline-delimited ACK/CANCEL/ERROR/trade
// lines as they arrive, until the connection closes.
func readReports(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fmt.Printf("\n[REPORT] %s\n", scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Printf("Connection lost: %v", err)
	}
	os.Exit(0)
}
