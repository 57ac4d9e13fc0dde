package router

import (
	"github.com/verone/backoffice/internal/interfaces/http/handler"
)

// Handlers bundles the handlers mounted under the API base path
type Handlers struct {
	System       *handler.SystemHandler
	Enseigne     *handler.EnseigneHandler
	Organisation *handler.OrganisationHandler
	LinkMe       *handler.LinkMeHandler
	LinkMeOrder  *handler.LinkMeOrderHandler
	Invoice      *handler.InvoiceHandler
	CreditNote   *handler.CreditNoteHandler
	Collection   *handler.CollectionHandler
	Contract     *handler.ContractHandler
	Insight      *handler.InsightHandler
}

// DomainGroups declares the API routes, one group per bounded context
func DomainGroups(h Handlers) []*DomainGroup {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	enseignes := NewDomainGroup("partner", "/enseignes")
	enseignes.POST("", h.Enseigne.Create)
	enseignes.GET("", h.Enseigne.List)
	enseignes.GET("/:id", h.Enseigne.GetByID)
	enseignes.PUT("/:id", h.Enseigne.Update)
	enseignes.DELETE("/:id", h.Enseigne.Delete)
	enseignes.POST("/:id/toggle-active", h.Enseigne.ToggleActive)
	enseignes.PUT("/:id/parent", h.Enseigne.SetParent)
	enseignes.DELETE("/:id/parent", h.Enseigne.ClearParent)
	enseignes.PUT("/:id/members", h.Enseigne.SaveMembers)
	enseignes.POST("/:id/members/:organisation_id", h.Enseigne.LinkMember)
	enseignes.DELETE("/:id/members/:organisation_id", h.Enseigne.UnlinkMember)
	enseignes.GET("/:id/stats", h.Enseigne.Stats)

	organisations := NewDomainGroup("partner", "/organisations")
	organisations.POST("", h.Organisation.Create)
	organisations.GET("", h.Organisation.List)
	organisations.GET("/:id", h.Organisation.GetByID)
	organisations.PUT("/:id", h.Organisation.Update)
	organisations.DELETE("/:id", h.Organisation.Delete)
	organisations.GET("/:id/commercial-terms", h.Organisation.GetCommercialTerms)
	organisations.PUT("/:id/commercial-terms", h.Organisation.UpdateCommercialTerms)
	organisations.POST("/:id/archive", h.Organisation.Archive)
	organisations.POST("/:id/unarchive", h.Organisation.Unarchive)
	organisations.POST("/:id/toggle-active", h.Organisation.ToggleActive)

	linkme := NewDomainGroup("linkme", "/linkme")
	affiliates := linkme.Group("affiliates", "/affiliates")
	affiliates.POST("", h.LinkMe.CreateAffiliate)
	affiliates.GET("", h.LinkMe.ListAffiliates)
	affiliates.GET("/:id", h.LinkMe.GetAffiliate)
	affiliates.POST("/:id/deactivate", h.LinkMe.DeactivateAffiliate)
	selections := linkme.Group("selections", "/selections")
	selections.POST("", h.LinkMe.CreateSelection)
	selections.GET("", h.LinkMe.ListSelections)
	selections.GET("/:id", h.LinkMe.GetSelection)
	selections.DELETE("/:id", h.LinkMe.DeleteSelection)
	orders := linkme.Group("trade", "/orders")
	orders.POST("", h.LinkMeOrder.Create)
	orders.GET("", h.LinkMeOrder.List)
	orders.GET("/:id", h.LinkMeOrder.GetByID)
	orders.PUT("/:id", h.LinkMeOrder.Update)
	orders.POST("/:id/validate", h.LinkMeOrder.Validate)
	orders.POST("/:id/ship", h.LinkMeOrder.Ship)
	orders.POST("/:id/deliver", h.LinkMeOrder.Deliver)
	orders.POST("/:id/cancel", h.LinkMeOrder.Cancel)
	orders.PUT("/:id/payment-status", h.LinkMeOrder.UpdatePaymentStatus)
	orders.GET("/:id/commission", h.LinkMeOrder.Commission)

	invoices := NewDomainGroup("finance", "/invoices")
	invoices.POST("", h.Invoice.Sync)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.POST("/:id/validate-draft", h.Invoice.ValidateDraft)
	invoices.POST("/:id/finalize", h.Invoice.Finalize)
	invoices.POST("/:id/send", h.Invoice.Send)
	invoices.POST("/:id/mark-paid", h.Invoice.MarkPaid)
	invoices.GET("/:id/vat-breakdown", h.Invoice.VATBreakdown)
	invoices.GET("/:id/pdf", h.Invoice.PDF)
	invoices.POST("/:id/quote", h.Invoice.CreateQuote)
	invoices.POST("/:id/credit-notes", h.Invoice.CreateCreditNote)
	invoices.GET("/:id/credit-notes", h.Invoice.ListCreditNotes)

	creditNotes := NewDomainGroup("finance", "/credit-notes")
	creditNotes.GET("/:id", h.CreditNote.GetByID)
	creditNotes.DELETE("/:id", h.CreditNote.Delete)
	creditNotes.POST("/:id/finalize", h.CreditNote.Finalize)
	creditNotes.GET("/:id/pdf", h.CreditNote.PDF)

	collections := NewDomainGroup("catalog", "/collections")
	collections.POST("", h.Collection.Create)
	collections.GET("", h.Collection.List)
	collections.GET("/:id", h.Collection.GetByID)
	collections.PUT("/:id", h.Collection.Update)
	collections.DELETE("/:id", h.Collection.Delete)
	collections.POST("/:id/toggle-active", h.Collection.ToggleActive)
	collections.POST("/:id/products", h.Collection.AddProduct)
	collections.PUT("/:id/products/reorder", h.Collection.ReorderProducts)
	collections.DELETE("/:id/products/:product_id", h.Collection.RemoveProduct)
	collections.POST("/:id/share", h.Collection.Share)

	contracts := NewDomainGroup("rental", "/contracts")
	contracts.POST("", h.Contract.Create)
	contracts.GET("", h.Contract.List)
	contracts.GET("/availability", h.Contract.Availability)
	contracts.GET("/statistics", h.Contract.Statistics)
	contracts.GET("/:id", h.Contract.GetByID)
	contracts.PUT("/:id", h.Contract.Update)
	contracts.DELETE("/:id", h.Contract.Delete)
	contracts.POST("/:id/document", h.Contract.GenerateDocument)
	contracts.GET("/:id/document", h.Contract.Document)

	insights := NewDomainGroup("insight", "/insights")
	insights.GET("/summary", h.Insight.Summary)
	insights.GET("/predictions", h.Insight.Predictions)
	insights.POST("/run", h.Insight.Run)

	return []*DomainGroup{
		system, enseignes, organisations, linkme, invoices,
		creditNotes, collections, contracts, insights,
	}
}
