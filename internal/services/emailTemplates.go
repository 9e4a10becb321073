package services

import (
	"bytes"
	"html/template"

	"modshop/internal/models"
)

var otpEmailTemplate = template.Must(template.New("otp").Parse(`<p>Your verification code is <strong>{{.Code}}</strong>.</p>
<p>It expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>`))

var orderEmailTemplate = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": func(v float64) string { return formatMoney(v) },
	"line":  func(it models.OrderItem) float64 { return it.Price * float64(it.Quantity) },
}).Parse(`<h2>Thank you for your order, {{.Customer.Name}}!</h2>
<p>Order <strong>#{{.ID.Hex}}</strong> has been received and is {{.Status}}.</p>
<table cellpadding="6" style="border-collapse:collapse">
  <tr><th align="left">Item</th><th>Qty</th><th align="right">Price</th><th align="right">Subtotal</th></tr>
  {{range .Items}}<tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{money .Price}}</td><td align="right">{{money (line .)}}</td></tr>
  {{end}}<tr><td colspan="3" align="right"><strong>Total</strong></td><td align="right"><strong>{{money .Total}}</strong></td></tr>
</table>
<p>Shipping to: {{.Customer.Address}}</p>
{{if .Customer.Instructions}}<p>Instructions: {{.Customer.Instructions}}</p>{{end}}`))

func renderOTPEmail(code string, minutes int) (string, error) {
	var buf bytes.Buffer
	err := otpEmailTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{code, minutes})
	return buf.String(), err
}

func renderOrderEmail(order *models.Order) (string, error) {
	var buf bytes.Buffer
	err := orderEmailTemplate.Execute(&buf, order)
	return buf.String(), err
}
