package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// gateway exposes CompanyServiceServer over REST on a grpc-gateway mux.
// Success and error bodies share the mux's outbound marshaler. Errors are
// rendered by the mux's error handler, so HTTP statuses follow the gRPC
// codes returned by the handler.
type gateway struct {
	mux     *runtime.ServeMux
	handler CompanyServiceServer
}

// NewGatewayMux builds the REST routes for /v1/companies on top of h.
func NewGatewayMux(h CompanyServiceServer) (*runtime.ServeMux, error) {
	g := &gateway{
		mux: runtime.NewServeMux(
			runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONPb{
				MarshalOptions: protojson.MarshalOptions{
					UseProtoNames:   true,
					EmitUnpopulated: true,
				},
			}),
		),
		handler: h,
	}

	routes := []struct {
		method  string
		pattern string
		handle  runtime.HandlerFunc
	}{
		{http.MethodPost, "/v1/companies", g.createCompany},
		{http.MethodGet, "/v1/companies", g.listCompanies},
		{http.MethodDelete, "/v1/companies", g.deleteAllCompanies},
		{http.MethodGet, "/v1/companies/name/{name}", g.getCompanyByName},
		{http.MethodGet, "/v1/companies/nickname/{nickname}", g.getCompanyByNickname},
		{http.MethodGet, "/v1/companies/{id}", g.getCompany},
		{http.MethodPut, "/v1/companies/{id}", g.updateCompany},
		{http.MethodDelete, "/v1/companies/{id}", g.deleteCompany},
	}
	for _, route := range routes {
		if err := g.mux.HandlePath(route.method, route.pattern, route.handle); err != nil {
			return nil, fmt.Errorf("failed to register %s %s: %w", route.method, route.pattern, err)
		}
	}
	return g.mux, nil
}

func (g *gateway) createCompany(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	company := new(Company)
	if !g.decode(w, r, company) {
		return
	}
	resp, err := g.handler.CreateCompany(r.Context(), &CreateCompanyRequest{Company: company})
	g.respond(w, r, http.StatusCreated, resp, err)
}

func (g *gateway) listCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	req := &ListCompaniesRequest{}
	query := r.URL.Query()
	for name, dst := range map[string]**int32{"skip": &req.Skip, "limit": &req.Limit} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			g.fail(w, r, status.Errorf(codes.InvalidArgument, "invalid %s: %q", name, raw))
			return
		}
		n := int32(v)
		*dst = &n
	}
	resp, err := g.handler.ListCompanies(r.Context(), req)
	g.respond(w, r, http.StatusOK, resp, err)
}

func (g *gateway) deleteAllCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	resp, err := g.handler.DeleteAllCompanies(r.Context(), &DeleteAllCompaniesRequest{})
	g.respond(w, r, http.StatusOK, resp, err)
}

func (g *gateway) getCompany(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.handler.GetCompany(r.Context(), &GetCompanyRequest{ID: params["id"]})
	g.respond(w, r, http.StatusOK, resp, err)
}

func (g *gateway) getCompanyByName(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.handler.GetCompanyByName(r.Context(), &GetCompanyByNameRequest{Name: params["name"]})
	g.respond(w, r, http.StatusOK, resp, err)
}

func (g *gateway) getCompanyByNickname(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.handler.GetCompanyByNickname(r.Context(), &GetCompanyByNicknameRequest{Nickname: params["nickname"]})
	g.respond(w, r, http.StatusOK, resp, err)
}

func (g *gateway) updateCompany(w http.ResponseWriter, r *http.Request, params map[string]string) {
	company := new(Company)
	if !g.decode(w, r, company) {
		return
	}
	resp, err := g.handler.UpdateCompany(r.Context(), &UpdateCompanyRequest{ID: params["id"], Company: company})
	g.respond(w, r, http.StatusOK, resp, err)
}

func (g *gateway) deleteCompany(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.handler.DeleteCompany(r.Context(), &DeleteCompanyRequest{ID: params["id"]})
	g.respond(w, r, http.StatusOK, resp, err)
}

func (g *gateway) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		g.fail(w, r, status.Errorf(codes.InvalidArgument, "invalid request body: %v", err))
		return false
	}
	return true
}

func (g *gateway) respond(w http.ResponseWriter, r *http.Request, code int, resp interface{}, err error) {
	if err != nil {
		g.fail(w, r, err)
		return
	}
	_, outbound := runtime.MarshalerForRequest(g.mux, r)
	body, err := outbound.Marshal(resp)
	if err != nil {
		g.fail(w, r, status.Errorf(codes.Internal, "failed to marshal response: %v", err))
		return
	}
	w.Header().Set("Content-Type", outbound.ContentType(resp))
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func (g *gateway) fail(w http.ResponseWriter, r *http.Request, err error) {
	_, outbound := runtime.MarshalerForRequest(g.mux, r)
	runtime.HTTPError(r.Context(), g.mux, outbound, w, r, err)
}
