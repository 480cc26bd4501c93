package controllers

import "oficinapro-backend/services"

var (
	orderService      *services.OrderService
	diagnosticService *services.DiagnosticService
	visionService     services.Vision
)

// Setup wires the service layer into the controllers. Called once in main.
func Setup(orders *services.OrderService, diagnostics *services.DiagnosticService, vision services.Vision) {
	orderService = orders
	diagnosticService = diagnostics
	visionService = vision
}
