package main

import (
	"github.com/hrrarya/order-pdf-export/internal/app"
	"github.com/hrrarya/order-pdf-export/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
