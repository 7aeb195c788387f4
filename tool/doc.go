// Package tool provides the tool registry consumed by the agent loop.
//
// Tools come in two flavors. Backend tools carry a [Handler] and are
// executed in-process when the model calls them. Client tools are
// schema-only: they are advertised to the model but fulfilled by the
// connected frontend, which returns results on the next request.
//
// # Basic Usage
//
// Define tool arguments as a struct with tags, then use Bind or Func:
//
//	type StatusArgs struct {
//	    GrievanceID string `json:"grievanceId" desc:"Registration number" required:"true"`
//	}
//
//	t, h := tool.MustBind("getGrievanceStatus", "Look up a filed grievance",
//	    func(ctx context.Context, args StatusArgs) (string, error) {
//	        return lookupStatus(ctx, args.GrievanceID)
//	    })
//
//	registry := tool.NewRegistry()
//	registry.MustRegister(t, h)
//
// Client tools are registered without a handler:
//
//	registry.RegisterClientTool(ai.Tool{
//	    Name:       "confirmGrievance",
//	    Parameters: schema,
//	})
//
// # Supported Struct Tags
//
// The following tags are supported for schema generation:
//
//	json:"name"      - Property name (required for inclusion)
//	desc:"text"      - Description for the model
//	required:"true"  - Mark field as required
//	enum:"a,b,c"     - Allowed values (comma-separated)
//	min:"0"          - Minimum value (numbers)
//	max:"100"        - Maximum value (numbers)
//	minLength:"1"    - Minimum string length
//	maxLength:"100"  - Maximum string length
//	pattern:"regex"  - String pattern
//	default:"value"  - Default value
//	minItems:"1"     - Minimum array items
//	maxItems:"10"    - Maximum array items
package tool
