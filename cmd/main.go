// cmd/main.go
package main

import (
	"account-service/app"
)

// @title           Account Service API
// @version         1.0
// @description     Bank account ledger and policy service: account opening rules, deposits, withdrawals, transfers, fees and commissions reporting.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
