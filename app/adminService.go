package app

import (
	"net/http"

	"LiveCTF/challenge"
	"LiveCTF/common"
	"LiveCTF/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// readPatch 从 json 或表单里读取题目属性
func readPatch(c *gin.Context) (*challenge.Patch, error) {
	data := make(map[string]interface{})
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&data); err != nil {
			return nil, common.ErrInvalidInput("invalid json body")
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			return nil, common.ErrInvalidInput("invalid form body")
		}
		for k, v := range c.Request.PostForm {
			data[k] = v
		}
	}
	return challenge.DecodePatch(data)
}

func (s *Server) createChallenge(c *gin.Context) {
	patch, err := readPatch(c)
	if err != nil {
		handleErr(c, err)
		return
	}
	actor, _ := s.actor(c)
	ch, err := s.orch.Create(c.Request.Context(), actor, patch)
	if err != nil {
		handleErr(c, err)
		return
	}
	logger(c).Info().Int64("challenge_id", ch.ID).Str("type", ch.Type).Msg("challenge created")
	c.Set("data", ch)
}

func (s *Server) adminGetChallenge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := s.actor(c)
	v, err := s.orch.Read(c.Request.Context(), actor, id, true)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", v)
}

func (s *Server) updateChallenge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	patch, err := readPatch(c)
	if err != nil {
		handleErr(c, err)
		return
	}
	actor, _ := s.actor(c)
	ch, err := s.orch.Update(c.Request.Context(), actor, id, patch)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", ch)
}

func (s *Server) deleteChallenge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := s.actor(c)
	if err := s.orch.Delete(c.Request.Context(), actor, id); err != nil {
		handleErr(c, err)
		return
	}
	logger(c).Info().Int64("challenge_id", id).Msg("challenge deleted")
}

func (s *Server) createFlag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	form := new(flagValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.isOk(); err != nil {
		handleErr(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := s.db.GetChallenge(ctx, id); err != nil {
		handleErr(c, err)
		return
	}
	f := &model.Flag{ChallengeID: id, Type: form.Type, Content: form.Content, Data: form.Data}
	if err := s.db.CreateFlag(ctx, f); err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", f)
}

func (s *Server) listFlags(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.db.GetChallenge(ctx, id); err != nil {
		handleErr(c, err)
		return
	}
	fs, err := s.db.ListFlags(ctx, id)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", fs)
}

func (s *Server) deleteFlag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.db.DeleteFlag(c.Request.Context(), id); err != nil {
		handleErr(c, err)
	}
}

func (s *Server) uploadFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.db.GetChallenge(ctx, id); err != nil {
		handleErr(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		setError(c, http.StatusBadRequest, "file is required")
		return
	}
	location, err := s.files.Save(c, fh)
	if err != nil {
		handleErr(c, err)
		return
	}
	f := &model.ChallengeFile{ChallengeID: id, Type: "challenge", Location: location}
	if err := s.db.CreateFile(ctx, f); err != nil {
		s.files.RemoveFile(location)
		handleErr(c, err)
		return
	}
	c.Set("data", f)
}

func (s *Server) createTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	form := new(tagValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := check(form); err != nil {
		handleErr(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := s.db.GetChallenge(ctx, id); err != nil {
		handleErr(c, err)
		return
	}
	t := &model.Tag{ChallengeID: id, Value: form.Value}
	if err := s.db.CreateTag(ctx, t); err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", t)
}
