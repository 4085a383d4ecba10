package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/application/territory"
	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
	"github.com/jhoicas/crm-farma/pkg/logger"
)

// AssignmentHandler maneja las peticiones HTTP de territorios (protegido).
type AssignmentHandler struct {
	bulk     *territory.BulkAssignmentUseCase
	province *territory.ProvinceAssignmentUseCase
	uc       *territory.AssignmentUseCase
	log      *logger.Logger
}

// NewAssignmentHandler construye el handler. log puede ser nil.
func NewAssignmentHandler(
	bulk *territory.BulkAssignmentUseCase,
	province *territory.ProvinceAssignmentUseCase,
	uc *territory.AssignmentUseCase,
	log *logger.Logger,
) *AssignmentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AssignmentHandler{bulk: bulk, province: province, uc: uc, log: log}
}

// BulkAssign godoc
// @Summary      Asignar un comercial a varios códigos postales
// @Description  Crea las asignaciones CP × marca que falten y reasigna los clientes afectados. Todo o nada.
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkAssignmentRequest  true  "Comercial, CPs y ventana"
// @Success      200   {object}  dto.BulkAssignmentResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/assignments/bulk [post]
func (h *AssignmentHandler) BulkAssign(c *fiber.Ctx) error {
	var in dto.BulkAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.bulk.AssignFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ProvinceAssign godoc
// @Summary      Asignar un comercial a toda una provincia
// @Description  province admite el ID numérico o el nombre. 404 si la provincia no tiene CPs activos.
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProvinceAssignmentRequest  true  "Comercial, provincia y ventana"
// @Success      200   {object}  dto.BulkAssignmentResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/assignments/province [post]
func (h *AssignmentHandler) ProvinceAssign(c *fiber.Ctx) error {
	var in dto.ProvinceAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.province.AssignFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear una asignación
// @Description  Inserta una sola fila. No reasigna clientes.
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssignmentRequest  true  "Datos de la asignación"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assignments [post]
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.CreateFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar asignaciones
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        comercial_id    query  int     false  "Comercial"
// @Param        postal_code_id  query  int     false  "Código postal"
// @Param        brand_id        query  int     false  "Marca"
// @Param        active          query  bool    false  "Solo activas / inactivas"
// @Param        limit           query  int     false  "Límite"   default(20)
// @Param        offset          query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.AssignmentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assignments [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	var (
		f   repository.AssignmentFilter
		err error
	)
	if f.ComercialID, err = queryInt64(c, "comercial_id"); err != nil {
		return writeError(c, h.log, err)
	}
	if f.PostalCodeID, err = queryInt64(c, "postal_code_id"); err != nil {
		return writeError(c, h.log, err)
	}
	if f.BrandID, err = queryInt64(c, "brand_id"); err != nil {
		return writeError(c, h.log, err)
	}
	if v := c.Query("active"); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return writeError(c, h.log, fmt.Errorf("active debe ser true o false: %w", domain.ErrInvalidInput))
		}
		f.Active = &b
	}
	f.Limit = c.QueryInt("limit", 20)
	f.Offset = c.QueryInt("offset", 0)
	out, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener asignación por ID
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la asignación"
// @Success      200  {object}  dto.AssignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [get]
func (h *AssignmentHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar ventana, prioridad, estado u observaciones
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la asignación"
// @Param        body  body  dto.UpdateAssignmentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [put]
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.UpdateAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar asignación
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la asignación"
// @Success      200  {object}  dto.AssignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id}/deactivate [post]
func (h *AssignmentHandler) Deactivate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Deactivate(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar asignación (solo admin)
// @Tags         assignments
// @Security     Bearer
// @Param        id   path  int  true  "ID de la asignación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// EffectivePriority godoc
// @Summary      Prioridad efectiva de un comercial sobre un CP
// @Description  -1 si no tiene asignación vigente en la fecha (hoy si no se indica).
// @Tags         commercials
// @Security     Bearer
// @Produce      json
// @Param        id              path   int     true   "ID del comercial"
// @Param        postal_code_id  query  int     true   "Código postal"
// @Param        date            query  string  false  "Fecha YYYY-MM-DD"
// @Success      200  {object}  dto.EffectivePriorityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/commercials/{id}/priority [get]
func (h *AssignmentHandler) EffectivePriority(c *fiber.Ctx) error {
	comercialID, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	pc, err := queryInt64(c, "postal_code_id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	if pc == nil {
		return writeError(c, h.log, fmt.Errorf("postal_code_id es requerido: %w", domain.ErrInvalidInput))
	}
	var date *time.Time
	if v := c.Query("date"); v != "" {
		d, perr := time.Parse(dto.DateLayout, v)
		if perr != nil {
			return writeError(c, h.log, fmt.Errorf("date debe tener formato YYYY-MM-DD: %w", domain.ErrInvalidInput))
		}
		date = &d
	}
	out, err := h.uc.EffectivePriority(c.UserContext(), comercialID, *pc, date)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q inválido: %w", c.Params("id"), domain.ErrInvalidInput)
	}
	return id, nil
}

// queryInt64 nil si el parámetro no viene.
func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%s %q inválido: %w", key, v, domain.ErrInvalidInput)
	}
	return &n, nil
}
