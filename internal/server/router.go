package server

import (
	"context"
	"net/http"

	"fichapp/internal/handlers"
	applog "fichapp/internal/log"
)

type route struct {
	path      string
	handler   http.HandlerFunc
	protected bool
}

var routes = []route{
	{path: "/healthz", handler: handlers.Health},
	{path: "/login", handler: handlers.Login},
	{path: "/signup", handler: handlers.Signup},
	{path: "/logout", handler: handlers.Logout},
	{path: "/app", handler: handlers.Dashboard, protected: true},
	{path: "/app/", handler: handlers.Dashboard, protected: true},
	{path: "/app/purchases", handler: handlers.Purchases, protected: true},
	{path: "/app/purchases/new", handler: handlers.NewPurchase, protected: true},
	{path: "/app/purchases/preview", handler: handlers.PreviewPurchase, protected: true},
	{path: "/app/active-costs", handler: handlers.ActiveCosts, protected: true},
	{path: "/app/active-costs/rebuild", handler: handlers.RebuildActiveCosts, protected: true},
	{path: "/app/units", handler: handlers.Units, protected: true},
	{path: "/app/groups", handler: handlers.Groups, protected: true},
	{path: "/app/parameters", handler: handlers.Parameters, protected: true},
	{path: "/app/exports", handler: handlers.Exports, protected: true},
	{path: "/app/exports/ledger.csv", handler: handlers.ExportLedgerCSV, protected: true},
	{path: "/app/exports/costs.xlsx", handler: handlers.ExportWorkbook, protected: true},
	{path: "/app/exports/active-costs.pdf", handler: handlers.ExportActiveCostsPDF, protected: true},
	{path: "/app/api/active-costs", handler: handlers.ActiveCostsAPI, protected: true},
	{path: "/app/api/purchases", handler: handlers.PurchasesAPI, protected: true},
	{path: "/app/api/purchases/", handler: handlers.PurchaseAPI, protected: true},
	{path: "/app/api/preview", handler: handlers.PreviewAPI, protected: true},
	{path: "/", handler: handlers.Home},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	for _, rt := range routes {
		var handler http.Handler = rt.handler
		if rt.protected {
			handler = handlers.RequireAuthentication(handler)
		}
		mux.Handle(rt.path, handler)
		applog.Debug(context.Background(), "route registered", "path", rt.path, "protected", rt.protected)
	}
	return mux
}
