package v1

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/assets"
	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

type Handler interface {
	HandleAuthMiddleware(c *gin.Context)

	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleGetUsers(c *gin.Context)
	HandleGetUser(c *gin.Context)
	HandleUpdateUser(c *gin.Context)
	HandleDeleteUser(c *gin.Context)

	HandleCreateRole(c *gin.Context)
	HandleGetRoles(c *gin.Context)
	HandleGetRole(c *gin.Context)
	HandleUpdateRole(c *gin.Context)
	HandleDeleteRole(c *gin.Context)

	HandleCreateStatus(c *gin.Context)
	HandleGetStatuses(c *gin.Context)
	HandleGetStatus(c *gin.Context)
	HandleUpdateStatus(c *gin.Context)
	HandleDeleteStatus(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandlePaginateTasks(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleGetBoard(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleMoveTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	users    services.UserService
	roles    services.RoleService
	statuses services.StatusService
	tasks    services.TaskService
	assets   *assets.Store
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	userService services.UserService,
	roleService services.RoleService,
	statusService services.StatusService,
	taskService services.TaskService,
	assetStore *assets.Store,
) Handler {
	useJSONFieldNames()
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		users:    userService,
		roles:    roleService,
		statuses: statusService,
		tasks:    taskService,
		assets:   assetStore,
	}
}

// Register mounts the routes on router. The public task board is only
// mounted when publicBoard is set.
func Register(router gin.IRouter, h Handler, publicBoard bool) {
	userRouter := router.Group("/user")
	userRouter.POST("/register", h.HandleRegister)
	userRouter.POST("/login", h.HandleLogin)
	userRouter.GET("/getall", h.HandleAuthMiddleware, h.HandleGetUsers)
	userRouter.GET("/get/:id", h.HandleAuthMiddleware, h.HandleGetUser)
	userRouter.PUT("/update", h.HandleAuthMiddleware, h.HandleUpdateUser)
	userRouter.DELETE("/delete", h.HandleAuthMiddleware, h.HandleDeleteUser)

	roleRouter := router.Group("/role", h.HandleAuthMiddleware)
	roleRouter.POST("/create", h.HandleCreateRole)
	roleRouter.GET("/getall", h.HandleGetRoles)
	roleRouter.GET("/get/:id", h.HandleGetRole)
	roleRouter.PUT("/update", h.HandleUpdateRole)
	roleRouter.DELETE("/delete", h.HandleDeleteRole)

	statusRouter := router.Group("/status", h.HandleAuthMiddleware)
	statusRouter.POST("/create", h.HandleCreateStatus)
	statusRouter.GET("/getall", h.HandleGetStatuses)
	statusRouter.GET("/get/:id", h.HandleGetStatus)
	statusRouter.PUT("/update", h.HandleUpdateStatus)
	statusRouter.DELETE("/delete", h.HandleDeleteStatus)

	taskRouter := router.Group("/task")
	taskRouter.POST("/create", h.HandleAuthMiddleware, h.HandleCreateTask)
	taskRouter.POST("/pagination", h.HandleAuthMiddleware, h.HandlePaginateTasks)
	taskRouter.GET("/getall", h.HandleAuthMiddleware, h.HandleGetTasks)
	taskRouter.GET("/get/:id", h.HandleAuthMiddleware, h.HandleGetTask)
	taskRouter.PUT("/update", h.HandleAuthMiddleware, h.HandleUpdateTask)
	taskRouter.DELETE("/delete", h.HandleAuthMiddleware, h.HandleDeleteTask)
	taskRouter.PUT("/move", h.HandleAuthMiddleware, h.HandleMoveTask)
	if publicBoard {
		taskRouter.GET("/get", h.HandleGetBoard)
	}
}

var jsonFieldNames sync.Once

// useJSONFieldNames makes validation errors name fields the way clients
// send them, and registers the objectid and notblank tags.
func useJSONFieldNames() {
	jsonFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return models.IsObjectID(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
		err = v.RegisterValidation("notblank", validators.NotBlank)
		if err != nil {
			panic(err)
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "uri"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

type idRequest struct {
	ID string `json:"id" binding:"required,objectid"`
}

type idURI struct {
	ID string `uri:"id" binding:"required,objectid"`
}

// bindJSON binds the body into req and aborts with a validation error
// when that fails.
func (h *handlerImpl) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBindingError(err))
		return false
	}
	return true
}

func (h *handlerImpl) bindURI(c *gin.Context, req any) bool {
	err := c.ShouldBindUri(req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind uri")
		abort(c, newBindingError(err))
		return false
	}
	return true
}
