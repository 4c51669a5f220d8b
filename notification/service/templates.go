package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	checkout "github.com/nittanycraft/storefront/checkout/domain"
)

var opsNoticeTemplate = template.Must(template.New("opsNotice").Parse(`
<h2>New order received</h2>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Product:</strong> {{.ProductName}}</p>
<p><strong>Amount:</strong> ${{.Price}}</p>
{{if .CustomerEmail}}<p><strong>Customer:</strong> {{.CustomerName}} &lt;{{.CustomerEmail}}&gt;</p>{{end}}
{{if .Shipping}}
<h3>Ship to</h3>
<p>
{{.Shipping.Name}}<br>
{{.Shipping.Line1}}<br>
{{if .Shipping.Line2}}{{.Shipping.Line2}}<br>{{end}}
{{.Shipping.City}}, {{.Shipping.State}} {{.Shipping.PostalCode}}<br>
{{.Shipping.Country}}
</p>
{{else}}
<p>No shipping address was collected for this order.</p>
{{end}}
{{if .OriginalURL}}<p><a href="{{.OriginalURL}}">Original photo</a></p>{{end}}
{{if .ProcessedURL}}<p><a href="{{.ProcessedURL}}">Engraving preview</a></p>{{end}}
{{if .HasAttachments}}<p>The order images are attached to this email.</p>{{end}}
`))

var customerConfirmationTemplate = template.Must(template.New("customerConfirmation").Parse(`
<h2>Thank you for your order!</h2>
<p>We received your order and will start working on your laser engraving shortly.</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Order date:</strong> {{.OrderDate}}</p>
<p><strong>Status:</strong> Paid</p>
<p><strong>Product:</strong> {{.ProductName}}</p>
<p><strong>Amount paid:</strong> ${{.Price}}</p>
{{if .Shipping}}
<h3>Shipping to</h3>
<p>
{{.Shipping.Name}}<br>
{{.Shipping.Line1}}<br>
{{if .Shipping.Line2}}{{.Shipping.Line2}}<br>{{end}}
{{.Shipping.City}}, {{.Shipping.State}} {{.Shipping.PostalCode}}<br>
{{.Shipping.Country}}
</p>
{{end}}
{{if .ProcessedURL}}<p>Here is a preview of your engraving: <a href="{{.ProcessedURL}}">view image</a></p>{{end}}
{{if .OriginalURL}}<p>Your original photo: <a href="{{.OriginalURL}}">view image</a></p>{{end}}
{{if .HasAttachments}}<p>Your images are attached to this email for safekeeping.</p>{{end}}
<h3>What happens next</h3>
<ol>
<li>We prepare your photo for engraving.</li>
<li>Your piece is laser engraved and quality checked.</li>
<li>We ship your order and email you the tracking number.</li>
</ol>
<p>NITTANY CRAFT</p>
`))

type templateData struct {
	OrderID        string
	OrderDate      string
	ProductName    string
	Price          string
	CustomerName   string
	CustomerEmail  string
	Shipping       *checkout.ShippingAddress
	OriginalURL    string
	ProcessedURL   string
	HasAttachments bool
}

func newTemplateData(order *checkout.ReconciledOrder) templateData {
	created := order.Created
	if created.IsZero() {
		created = time.Now()
	}

	data := templateData{
		OrderID:       order.OrderID,
		OrderDate:     created.Format("January 2, 2006"),
		ProductName:   productName(order.OrderType),
		Price:         fmt.Sprintf("%.2f", order.Price),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Shipping:      order.Shipping,
	}

	if order.Original != nil {
		data.OriginalURL = order.Original.URL
		data.HasAttachments = data.HasAttachments || len(order.Original.Data) > 0
	}

	if order.Processed != nil {
		data.ProcessedURL = order.Processed.URL
		data.HasAttachments = data.HasAttachments || len(order.Processed.Data) > 0
	}

	return data
}

func productName(orderType checkout.OrderType) string {
	if orderType == checkout.OrderTypeOldMainClassic {
		return checkout.OldMainClassicName
	}

	return checkout.CustomEngravingName
}

func renderOpsNotice(order *checkout.ReconciledOrder) (string, error) {
	var buf bytes.Buffer
	if err := opsNoticeTemplate.Execute(&buf, newTemplateData(order)); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func renderCustomerConfirmation(order *checkout.ReconciledOrder) (string, error) {
	var buf bytes.Buffer
	if err := customerConfirmationTemplate.Execute(&buf, newTemplateData(order)); err != nil {
		return "", err
	}

	return buf.String(), nil
}
