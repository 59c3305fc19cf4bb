package schema

// Sheet names expected in an uploaded workbook. Column names inside the sheets are
// user-mapped; the sheet names themselves are fixed.
const (
	SheetPRs             = "PRs"
	SheetPOs             = "POs"
	SheetCategoryMapping = "Category_Mapping"
)

// Canonical field names shared by the mapper, resolver and classifier.
const (
	FieldPRNumber       = "PR_Number"
	FieldPRDate         = "PR_Date"
	FieldPRStatus       = "PR_Status"
	FieldPRAmount       = "PR_Amount"
	FieldMaterialGroup  = "Material_Group"
	FieldCostCenter     = "Cost_Center"
	FieldItemType       = "Item_Type"
	FieldCategory       = "Category"
	FieldBuyer          = "Buyer"
	FieldPONumber       = "PO_Number"
	FieldPODate         = "PO_Date"
	FieldPOStatus       = "PO_Status"
	FieldDeliveryStatus = "Delivery_Status"
	FieldVendor         = "Vendor"
	FieldPOQuantity     = "PO_Quantity"
	FieldGRNQuantity    = "GRN_Quantity"
	FieldPRLine         = "PR_Line"
	FieldKey            = "Key_Field"
)

// Field is one expected logical column of a sheet.
type Field struct {
	Name     string
	Label    string
	Required bool
}

// Sheet describes the expected schema of one workbook sheet.
type Sheet struct {
	Name   string
	Fields []Field
}

var prSheet = Sheet{
	Name: SheetPRs,
	Fields: []Field{
		{Name: FieldPRNumber, Label: "PR Number", Required: true},
		{Name: FieldPRDate, Label: "PR Date", Required: true},
		{Name: FieldPRStatus, Label: "PR Status", Required: true},
		{Name: FieldPRAmount, Label: "PR Amount"},
		{Name: FieldMaterialGroup, Label: "Material Group"},
		{Name: FieldCostCenter, Label: "Cost Center"},
		{Name: FieldItemType, Label: "Item Type"},
		{Name: FieldCategory, Label: "Category"},
		{Name: FieldBuyer, Label: "Buyer"},
	},
}

var poSheet = Sheet{
	Name: SheetPOs,
	Fields: []Field{
		{Name: FieldPONumber, Label: "PO Number", Required: true},
		{Name: FieldPODate, Label: "PO Date", Required: true},
		{Name: FieldPOStatus, Label: "PO Status", Required: true},
		{Name: FieldDeliveryStatus, Label: "Delivery Status", Required: true},
		{Name: FieldVendor, Label: "Vendor"},
		{Name: FieldPOQuantity, Label: "PO Quantity"},
		{Name: FieldGRNQuantity, Label: "GRN Quantity"},
		{Name: FieldPRNumber, Label: "PR Number"},
		{Name: FieldPRLine, Label: "PR Line"},
		{Name: FieldCategory, Label: "Category"},
		{Name: FieldBuyer, Label: "Buyer"},
	},
}

var mappingSheet = Sheet{
	Name: SheetCategoryMapping,
	Fields: []Field{
		{Name: FieldKey, Label: "Key Field", Required: true},
		{Name: FieldCategory, Label: "Category", Required: true},
	},
}

// SheetFor returns the expected schema for a sheet name.
func SheetFor(name string) (Sheet, bool) {
	switch name {
	case SheetPRs:
		return prSheet, true
	case SheetPOs:
		return poSheet, true
	case SheetCategoryMapping:
		return mappingSheet, true
	}
	return Sheet{}, false
}

// RecordSheets returns the schemas of the two record sheets, PRs then POs.
func RecordSheets() []Sheet {
	return []Sheet{prSheet, poSheet}
}

// FieldNames returns the field names of s in declaration order.
func (s Sheet) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// RequiredFields returns the names of the required fields of s.
func (s Sheet) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// KeyFields are the fields consulted, in order, when resolving a record's category
// through the category mapping.
func KeyFields() []string {
	return []string{FieldMaterialGroup, FieldCostCenter, FieldItemType}
}

// DateField returns the canonical date field of a record sheet.
func DateField(sheet string) string {
	if sheet == SheetPOs {
		return FieldPODate
	}
	return FieldPRDate
}
