package dto

// CreateMaterialRequest binds from either a JSON body or multipart form fields.
type CreateMaterialRequest struct {
	Title string `form:"title" json:"title" binding:"max=200"`
	Type  string `form:"type" json:"type" binding:"omitempty,oneof=pdf image youtube link text file"`
	URL   string `form:"url" json:"url" binding:"omitempty,max=2000"`
	Note  string `form:"note" json:"note"`
}
