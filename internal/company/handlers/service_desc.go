package handlers

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "company.v1.CompanyService"

// CompanyServiceServer is the server API for the company.v1.CompanyService service.
type CompanyServiceServer interface {
	CreateCompany(context.Context, *CreateCompanyRequest) (*CreateCompanyResponse, error)
	GetCompany(context.Context, *GetCompanyRequest) (*GetCompanyResponse, error)
	GetCompanyByName(context.Context, *GetCompanyByNameRequest) (*GetCompanyResponse, error)
	GetCompanyByNickname(context.Context, *GetCompanyByNicknameRequest) (*GetCompanyResponse, error)
	ListCompanies(context.Context, *ListCompaniesRequest) (*ListCompaniesResponse, error)
	UpdateCompany(context.Context, *UpdateCompanyRequest) (*UpdateCompanyResponse, error)
	DeleteCompany(context.Context, *DeleteCompanyRequest) (*DeleteCompanyResponse, error)
	DeleteAllCompanies(context.Context, *DeleteAllCompaniesRequest) (*DeleteAllCompaniesResponse, error)
}

// CompanyServiceDesc describes company.v1.CompanyService for grpc.Server.RegisterService.
var CompanyServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CompanyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateCompany", CompanyServiceServer.CreateCompany),
		unaryMethod("GetCompany", CompanyServiceServer.GetCompany),
		unaryMethod("GetCompanyByName", CompanyServiceServer.GetCompanyByName),
		unaryMethod("GetCompanyByNickname", CompanyServiceServer.GetCompanyByNickname),
		unaryMethod("ListCompanies", CompanyServiceServer.ListCompanies),
		unaryMethod("UpdateCompany", CompanyServiceServer.UpdateCompany),
		unaryMethod("DeleteCompany", CompanyServiceServer.DeleteCompany),
		unaryMethod("DeleteAllCompanies", CompanyServiceServer.DeleteAllCompanies),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "company/v1/company",
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unaryMethod adapts a typed server method to grpc's untyped handler signature,
// running it through the server's interceptor chain.
func unaryMethod[Req, Resp any](name string, call func(CompanyServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CompanyServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CompanyServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CompanyServiceClient is a typed client for company.v1.CompanyService.
type CompanyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCompanyServiceClient(cc grpc.ClientConnInterface) *CompanyServiceClient {
	return &CompanyServiceClient{cc: cc}
}

func (c *CompanyServiceClient) CreateCompany(ctx context.Context, in *CreateCompanyRequest, opts ...grpc.CallOption) (*CreateCompanyResponse, error) {
	return invoke[CreateCompanyResponse](ctx, c.cc, "CreateCompany", in, opts)
}

func (c *CompanyServiceClient) GetCompany(ctx context.Context, in *GetCompanyRequest, opts ...grpc.CallOption) (*GetCompanyResponse, error) {
	return invoke[GetCompanyResponse](ctx, c.cc, "GetCompany", in, opts)
}

func (c *CompanyServiceClient) GetCompanyByName(ctx context.Context, in *GetCompanyByNameRequest, opts ...grpc.CallOption) (*GetCompanyResponse, error) {
	return invoke[GetCompanyResponse](ctx, c.cc, "GetCompanyByName", in, opts)
}

func (c *CompanyServiceClient) GetCompanyByNickname(ctx context.Context, in *GetCompanyByNicknameRequest, opts ...grpc.CallOption) (*GetCompanyResponse, error) {
	return invoke[GetCompanyResponse](ctx, c.cc, "GetCompanyByNickname", in, opts)
}

func (c *CompanyServiceClient) ListCompanies(ctx context.Context, in *ListCompaniesRequest, opts ...grpc.CallOption) (*ListCompaniesResponse, error) {
	return invoke[ListCompaniesResponse](ctx, c.cc, "ListCompanies", in, opts)
}

func (c *CompanyServiceClient) UpdateCompany(ctx context.Context, in *UpdateCompanyRequest, opts ...grpc.CallOption) (*UpdateCompanyResponse, error) {
	return invoke[UpdateCompanyResponse](ctx, c.cc, "UpdateCompany", in, opts)
}

func (c *CompanyServiceClient) DeleteCompany(ctx context.Context, in *DeleteCompanyRequest, opts ...grpc.CallOption) (*DeleteCompanyResponse, error) {
	return invoke[DeleteCompanyResponse](ctx, c.cc, "DeleteCompany", in, opts)
}

func (c *CompanyServiceClient) DeleteAllCompanies(ctx context.Context, in *DeleteAllCompaniesRequest, opts ...grpc.CallOption) (*DeleteAllCompaniesResponse, error) {
	return invoke[DeleteAllCompaniesResponse](ctx, c.cc, "DeleteAllCompanies", in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
