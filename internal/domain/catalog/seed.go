package catalog

// StandardConditions is the baseline condition set every clinic starts with.
var StandardConditions = []Condition{
	{Name: "Cavity", Code: "C01", Description: "Tooth decay or cavity", ColorCode: "#FF0000", Icon: "cavity-icon"},
	{Name: "Fracture", Code: "F01", Description: "Tooth fracture or crack", ColorCode: "#FFA500", Icon: "fracture-icon"},
	{Name: "Missing", Code: "M01", Description: "Missing tooth", ColorCode: "#000000", Icon: "missing-icon"},
	{Name: "Impacted", Code: "I01", Description: "Impacted tooth", ColorCode: "#800080", Icon: "impacted-icon"},
	{Name: "Root Canal", Code: "RC01", Description: "Root canal treated tooth", ColorCode: "#0000FF", Icon: "root-canal-icon"},
	{Name: "Crown", Code: "CR01", Description: "Tooth with crown", ColorCode: "#FFD700", Icon: "crown-icon"},
	{Name: "Bridge", Code: "BR01", Description: "Bridge abutment tooth", ColorCode: "#A52A2A", Icon: "bridge-icon"},
	{Name: "Implant", Code: "IM01", Description: "Dental implant", ColorCode: "#808080", Icon: "implant-icon"},
	{Name: "Veneer", Code: "V01", Description: "Tooth with veneer", ColorCode: "#FFFFFF", Icon: "veneer-icon"},
	{Name: "Gingivitis", Code: "G01", Description: "Gum inflammation", ColorCode: "#FF69B4", Icon: "gingivitis-icon"},
}

// StandardProcedures is the baseline procedure set, CDT-coded.
var StandardProcedures = []Procedure{
	{Name: "Amalgam Filling (1 surface)", Code: "D2140", Description: "Silver filling for posterior teeth (1 surface)", Category: "restorative", DefaultPrice: 120.00, DurationMinutes: 30},
	{Name: "Composite Filling (1 surface)", Code: "D2330", Description: "Tooth-colored filling for anterior teeth (1 surface)", Category: "restorative", DefaultPrice: 150.00, DurationMinutes: 30},
	{Name: "Composite Filling (2 surfaces)", Code: "D2331", Description: "Tooth-colored filling for anterior teeth (2 surfaces)", Category: "restorative", DefaultPrice: 180.00, DurationMinutes: 45},
	{Name: "Root Canal - Anterior", Code: "D3310", Description: "Root canal therapy for anterior tooth", Category: "endodontic", DefaultPrice: 700.00, DurationMinutes: 60},
	{Name: "Root Canal - Premolar", Code: "D3320", Description: "Root canal therapy for premolar tooth", Category: "endodontic", DefaultPrice: 800.00, DurationMinutes: 75},
	{Name: "Root Canal - Molar", Code: "D3330", Description: "Root canal therapy for molar tooth", Category: "endodontic", DefaultPrice: 1000.00, DurationMinutes: 90},
	{Name: "Extraction - Simple", Code: "D7140", Description: "Simple extraction of erupted tooth", Category: "oral surgery", DefaultPrice: 150.00, DurationMinutes: 30},
	{Name: "Extraction - Surgical", Code: "D7210", Description: "Surgical extraction of erupted tooth", Category: "oral surgery", DefaultPrice: 250.00, DurationMinutes: 45},
	{Name: "Crown - Porcelain/Ceramic", Code: "D2740", Description: "Porcelain/ceramic crown", Category: "prosthodontic", DefaultPrice: 1200.00, DurationMinutes: 60},
	{Name: "Scaling and Root Planing (per quadrant)", Code: "D4341", Description: "Deep cleaning for periodontal disease", Category: "periodontic", DefaultPrice: 200.00, DurationMinutes: 45},
}
